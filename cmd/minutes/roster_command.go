package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"minutes/internal/meeting"
	"minutes/internal/roster"
	"minutes/internal/services"
)

func newRosterCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "roster <file>",
		Short:       "Parse a participant roster and print it",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			participants, err := readRoster(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, participants)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRosterTable(participants))
			fmt.Fprintf(out, "%d participant(s)\n", len(participants))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print participants as JSON")
	return cmd
}

func readRoster(path string) ([]meeting.Participant, error) {
	participants, recognized, err := roster.ReadFile(path)
	if !recognized {
		return nil, services.Wrap(services.ErrValidation, "roster", "read", fmt.Sprintf("unsupported roster format: %s (use .csv, .txt, .docx, .yaml, or .json)", path), nil)
	}
	if err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []meeting.Participant{}
	}
	return participants, nil
}

func renderRosterTable(participants []meeting.Participant) string {
	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		email := p.Email
		if !meeting.ValidEmail(email) {
			email += " (not deliverable)"
		}
		rows = append(rows, []string{cell(p.Name, 32), cell(email, 48), cell(p.Expertise, 40)})
	}
	return renderTable([]string{"Name", "Email", "Expertise"}, rows, nil)
}
