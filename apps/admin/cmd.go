package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core/action"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sqlx.DB
	records action.RecordRepository
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose command on the embedded migrations")
	fmt.Fprintln(cli.out, "  events [-limit N] [-action ACTION] [-user USER_ID] - list the latest dispatched actions")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	eventsCmd := flag.NewFlagSet("events", flag.ContinueOnError)
	eventsCmd.SetOutput(cli.out)
	eventsLimit := eventsCmd.Int("limit", 20, "The maximum number of events to list.")
	eventsAction := eventsCmd.String("action", "", "Only list events of this action.")
	eventsUser := eventsCmd.String("user", "", "Only list events fired by this user.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "events":
		if err := eventsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *eventsLimit <= 0 {
			eventsCmd.Usage()
			return errHelp
		}
		filter := action.RecordFilter{
			Action: action.Action(*eventsAction),
			UserID: *eventsUser,
			Limit:  *eventsLimit,
		}
		if filter.Action != "" && !filter.Action.Valid() {
			return fmt.Errorf("%q: unknown action", filter.Action)
		}
		return cli.listEvents(filter)
	default:
		cli.printUsage()
		return errHelp
	}
}
