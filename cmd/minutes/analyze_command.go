package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"minutes/internal/meeting"
	"minutes/internal/services"
	"minutes/internal/session"
	"minutes/internal/transcript"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var transcriptPath string
	var rosterPath string
	var sessionRef string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize a meeting transcript and extract action items",
		Long: "Analyze loads a transcript and a roster into a session, asks the completion\n" +
			"service for a summary and for action items, and stores the results.\n" +
			"Without --session a new session is created and both files are required;\n" +
			"with --session the given files replace that session's inputs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sess, err := loadAnalyzeSession(cmd, store, sessionRef, transcriptPath, rosterPath)
				if err != nil {
					return err
				}
				analyzer, err := ctx.analyzer()
				if err != nil {
					return err
				}
				if _, err := analyzer.Analyze(cmd.Context(), sess); err != nil {
					return err
				}
				if err := store.Save(cmd.Context(), sess); err != nil {
					return err
				}
				if strings.TrimSpace(sessionRef) == "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Saved session %s\n", sess.ShortID())
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

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Transcript file (.txt, .md, .docx)")
	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster file (.csv, .txt, .docx, .yaml, .json)")
	cmd.Flags().StringVarP(&sessionRef, "session", "s", "", "Re-analyze an existing session (ID or prefix)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analyzed session as JSON")
	return cmd
}

// loadAnalyzeSession resolves the target session and applies any new inputs.
// Inputs are read before the session is touched so a bad file leaves it as
// it was.
func loadAnalyzeSession(cmd *cobra.Command, store *session.Store, ref, transcriptPath, rosterPath string) (*session.Session, error) {
	transcriptPath = strings.TrimSpace(transcriptPath)
	rosterPath = strings.TrimSpace(rosterPath)
	ref = strings.TrimSpace(ref)

	if ref == "" && (transcriptPath == "" || rosterPath == "") {
		return nil, services.Wrap(services.ErrValidation, "analyze", "", "--transcript and --roster are required for a new session", nil)
	}

	var text string
	if transcriptPath != "" {
		read, err := transcript.ReadFile(transcriptPath)
		if errors.Is(err, transcript.ErrUnsupportedFormat) {
			return nil, services.Wrap(services.ErrValidation, "analyze", "read transcript", transcriptPath, err)
		}
		if err != nil {
			return nil, err
		}
		text = read
	}
	participants, err := optionalRoster(rosterPath)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	if ref != "" {
		sess, err = store.Resolve(cmd.Context(), ref)
		if err != nil {
			return nil, err
		}
	}
	if transcriptPath != "" {
		sess.SetTranscript(filepath.Base(transcriptPath), text)
	}
	if rosterPath != "" {
		sess.SetRoster(filepath.Base(rosterPath), participants)
	}
	return sess, nil
}

func optionalRoster(path string) ([]meeting.Participant, error) {
	if path == "" {
		return nil, nil
	}
	return readRoster(path)
}
