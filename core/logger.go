package core

// Logger is any structured logger the app reports to.
// args may hold an error, a map[string]interface{} of extras and the acting User.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// User identifies who triggered a logged event.
type User struct {
	ID       string
	Username string
	Email    string
}
