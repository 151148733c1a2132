package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/trezcool/darasa/core"
)

// LoggerMock keeps logged messages in memory.
type LoggerMock struct {
	mu      sync.Mutex
	entries []LogEntry
}

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

var _ core.Logger = (*LoggerMock)(nil)

func NewLoggerMock() *LoggerMock {
	return &LoggerMock{}
}

func (l *LoggerMock) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *LoggerMock) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *LoggerMock) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *LoggerMock) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *LoggerMock) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *LoggerMock) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Entries returns the entries logged at level, or all entries when level is empty.
func (l *LoggerMock) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

// NewConfig returns a TEST configuration that does not read the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:     false,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Darasa",
		Build:     "test",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
		Dispatch: core.DispatchConfig{
			Timeout: 5 * time.Second,
			ViewTTL: time.Minute,
		},
	}
}

// NewToken signs a token as the hosted auth provider would.
func NewToken(conf *core.Config, userID string, roles ...string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"iat":   now.Unix(),
		"exp":   now.Add(conf.Server.JWTExpirationDelta).Unix(),
		"roles": roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(conf.SecretKey))
}
