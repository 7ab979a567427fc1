package main

import (
	"github.com/spf13/cobra"

	"minutes/internal/session"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Display a stored session (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sess, err := store.Resolve(cmd.Context(), optionalArg(args))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, sess)
				}
				out := cmd.OutOrStdout()
				printSessionHeader(out, sess)
				printAnalysis(out, sess)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	return cmd
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
