package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"minutes/internal/delivery"
	"minutes/internal/logging"
	"minutes/internal/notifications"
	"minutes/internal/services"
	"minutes/internal/session"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "send [session-id]",
		Short: "Email the summary and action items to each recipient",
		Long: "Send groups the session's action items by assignee email and sends one\n" +
			"message per recipient. When no action items were found every roster\n" +
			"participant with an email gets the summary instead. A failed send never\n" +
			"stops the others; the command exits with status 3 when any send failed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

				if !asJSON {
					fmt.Fprintln(out, renderPlanTable(plan))
				}
				if !assumeYes {
					ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Send %d email(s)? [y/N] ", plan.Len()))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Aborted; nothing was sent.")
						return nil
					}
				}

				lock, err := store.LockDispatch(sess.ID)
				if err != nil {
					if errors.Is(err, session.ErrDispatchInProgress) {
						return services.Wrap(services.ErrValidation, "send", sess.ShortID(), "another send is already running for this session", err)
					}
					return err
				}
				defer lock.Release()

				return dispatchSession(cmd, ctx, sess, plan, asJSON)
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Send without asking for confirmation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dispatch report as JSON")
	return cmd
}

func dispatchSession(cmd *cobra.Command, ctx *commandContext, sess *session.Session, plan *delivery.Plan, asJSON bool) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	renderer, err := ctx.renderer()
	if err != nil {
		return err
	}
	runCtx := services.WithSessionID(cmd.Context(), sess.ID)
	mailer, err := ctx.mailer(runCtx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	opts := notifications.Options{
		Renderer: renderer,
		Logger:   logging.WithSessionID(logger, sess.ID),
	}
	if !asJSON {
		opts.Progress = func(p notifications.Progress) {
			fmt.Fprintln(out, renderProgressLine(p, colorize))
		}
	}

	report := notifications.DispatchAll(runCtx, plan, *sess.Summary, mailer, opts)

	if asJSON {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Sent %d of %d email(s)", report.Succeeded, report.Total())
		if report.Failed > 0 {
			fmt.Fprintf(out, ", %d failed", report.Failed)
		}
		fmt.Fprintln(out)
	}
	if report.Failed > 0 {
		return services.Wrap(services.ErrPartialDelivery, "send", sess.ShortID(),
			fmt.Sprintf("%d of %d sends failed", report.Failed, report.Total()), nil)
	}
	return nil
}

func renderProgressLine(p notifications.Progress, colorize bool) string {
	label := fmt.Sprintf("%d of %d", p.Index, p.Total)
	if p.Succeeded {
		return renderStatusLine(label, statusOK, p.Email, colorize)
	}
	return renderStatusLine(label, statusError, p.Email+": "+cell(p.Detail, 100), colorize)
}

func renderPlanTable(plan *delivery.Plan) string {
	rows := make([][]string, 0, plan.Len())
	for _, bundle := range plan.Bundles() {
		rows = append(rows, []string{
			cell(bundle.RecipientName, 32),
			bundle.Email,
			notifications.Subject(bundle.Kind),
			fmt.Sprintf("%d", len(bundle.Tasks)),
		})
	}
	return renderTable(
		[]string{"Recipient", "Email", "Subject", "Tasks"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	fmt.Fprintln(out)
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
