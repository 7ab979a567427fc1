package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"minutes/internal/services"
	"minutes/internal/session"
	"minutes/internal/textutil"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "preview [session-id]",
		Short: "Render the per-recipient emails to HTML files without sending",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			renderer, err := ctx.renderer()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *session.Store) error {
				sess, err := store.Resolve(cmd.Context(), optionalArg(args))
				if err != nil {
					return err
				}
				if !sess.Analyzed() {
					return errNotAnalyzed(sess)
				}
				out := cmd.OutOrStdout()
				plan := sess.Plan()
				if plan.Empty() {
					fmt.Fprintln(out, nothingToSend)
					return nil
				}

				dir := strings.TrimSpace(outDir)
				if dir == "" {
					dir = filepath.Join(cfg.Paths.OutboxDir, "preview-"+sess.ShortID())
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create preview directory: %w", err)
				}

				rows := make([][]string, 0, plan.Len())
				for i, bundle := range plan.Bundles() {
					email, err := renderer.Render(bundle, *sess.Summary)
					if err != nil {
						return fmt.Errorf("render %s: %w", bundle.Email, err)
					}
					name := fmt.Sprintf("%02d-%s.html", i+1, textutil.SanitizeToken(bundle.Email))
					path := filepath.Join(dir, name)
					if err := os.WriteFile(path, []byte(email.HTML), 0o644); err != nil {
						return fmt.Errorf("write preview: %w", err)
					}
					rows = append(rows, []string{bundle.Email, email.Subject, fmt.Sprintf("%d", len(bundle.Tasks)), name})
				}
				fmt.Fprintln(out, renderTable([]string{"Recipient", "Subject", "Tasks", "File"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
				fmt.Fprintf(out, "Wrote %d preview(s) to %s\n", plan.Len(), dir)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for the rendered HTML files")
	return cmd
}

const nothingToSend = "Nothing to send: no tasks with a deliverable email and no roster emails."

func errNotAnalyzed(sess *session.Session) error {
	return services.Wrap(services.ErrValidation, "session", sess.ShortID(), "not analyzed yet; run `minutes analyze --session "+sess.ShortID()+"`", nil)
}

