package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"minutes/internal/session"
	"minutes/internal/textutil"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored sessions",
	}

	cmd.AddCommand(newSessionsListCommand(ctx))
	cmd.AddCommand(newSessionsRemoveCommand(ctx))
	cmd.AddCommand(newSessionsClearCommand(ctx))

	return cmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sessions, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if sessions == nil {
						sessions = []*session.Session{}
					}
					return writeJSON(cmd, sessions)
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No sessions recorded")
					return nil
				}
				now := time.Now()
				rows := make([][]string, 0, len(sessions))
				for _, sess := range sessions {
					rows = append(rows, []string{
						sess.ShortID(),
						formatAge(sess.UpdatedAt, now),
						cell(sess.TranscriptName, 32),
						fmt.Sprintf("%d", len(sess.Roster)),
						fmt.Sprintf("%d", len(sess.Tasks)),
						textutil.Ternary(sess.Analyzed(), "yes", "no"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Updated", "Transcript", "People", "Tasks", "Analyzed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sessions as JSON")
	return cmd
}

func newSessionsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <session-id>",
		Short: "Remove a session by ID or prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sess, err := store.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if _, err := store.Delete(cmd.Context(), sess.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session %s\n", sess.ShortID())
				return nil
			})
		},
	}
}

func newSessionsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session(s)\n", removed)
				return nil
			})
		},
	}
}
