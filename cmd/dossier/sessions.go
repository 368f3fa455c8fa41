package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/dossier"
)

// Run executes the sessions list command.
func (c *SessionsListCmd) Run(deps *Dependencies) error {
	filter := dossier.SessionFilter{Limit: c.Limit}
	if c.URL != "" {
		url, err := dossier.NormalizeURL(c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", dossier.ErrorMessage(err))
			return err
		}
		filter.URL = &url
	}
	switch c.Status {
	case "":
	case dossier.SessionSuccess, dossier.SessionFailed, dossier.SessionTimeout:
		filter.Status = &c.Status
	default:
		fmt.Fprintf(deps.Stderr, "error: invalid status %q\n", c.Status)
		return dossier.Errorf(dossier.EINVALID, "invalid status %q", c.Status)
	}

	sessions, err := deps.Sessions.FindSessions(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dossier.ErrorMessage(err))
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(deps.Stdout, "No sessions found. Use 'dossier scrape' to record one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			s.CreatedAt.Local().Format(time.DateTime),
			s.Status,
			s.URL,
			s.ProfilesFound,
			s.Duration.Round(time.Millisecond),
			strings.Join(s.Strategies, ","),
			s.Error,
		)
	}
	return w.Flush()
}

// Run executes the sessions prune command.
func (c *SessionsPruneCmd) Run(deps *Dependencies) error {
	if c.OlderThan <= 0 {
		fmt.Fprintln(deps.Stderr, "error: --older-than must be positive")
		return dossier.Errorf(dossier.EINVALID, "--older-than must be positive")
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	n, err := deps.Sessions.DeleteSessionsBefore(deps.Ctx, now().Add(-c.OlderThan))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dossier.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d sessions older than %s\n", n, c.OlderThan)
	return nil
}
