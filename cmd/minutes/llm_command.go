package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"minutes/internal/services/completion"
)

func newLLMCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "llm",
		Short: "Completion service utilities",
	}
	cmd.AddCommand(newLLMCheckCommand(ctx))
	return cmd
}

func newLLMCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the completion service credentials and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			completer, err := ctx.newCompleter(cfg.GetLLM())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			label := fmt.Sprintf("%s (%s)", cfg.LLM.Provider, cfg.LLM.Model)
			started := time.Now()
			if err := completion.Check(cmd.Context(), completer); err != nil {
				renderChecks(out, "Completion service", []statusCheck{{Label: "LLM", Kind: statusError, Message: label + ": " + err.Error()}})
				return fmt.Errorf("llm check: %w", err)
			}
			elapsed := time.Since(started).Round(time.Millisecond)
			renderChecks(out, "Completion service", []statusCheck{{Label: "LLM", Kind: statusOK, Message: fmt.Sprintf("%s responded in %s", label, elapsed)}})
			return nil
		},
	}
}
