package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/trezcool/darasa/core/action"
)

// listEvents prints the latest records matching filter, newest first.
func (cli *commandLine) listEvents(filter action.RecordFilter) error {
	records, err := cli.records.QueryRecords(context.Background(), filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIRED AT\tID\tACTION\tPAGE\tUSER")
	for _, rec := range records {
		ec := rec.Context
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ec.Timestamp.UTC().Format(time.RFC3339), rec.Config.ID, rec.Config.Action, orDash(ec.Page), orDash(ec.UserID))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
