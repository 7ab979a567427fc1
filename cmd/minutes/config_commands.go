package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"minutes/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set llm.api_key (or export OPENROUTER_API_KEY) and mail.from before sending.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			renderChecks(out, "Settings", configChecks(cfg))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func configChecks(cfg *config.Config) []statusCheck {
	checks := []statusCheck{
		{Label: "State dir", Kind: statusInfo, Message: cfg.Paths.StateDir},
		{Label: "LLM provider", Kind: statusInfo, Message: fmt.Sprintf("%s (%s)", cfg.LLM.Provider, cfg.LLM.Model)},
	}
	if cfg.LLM.APIKey == "" {
		checks = append(checks, statusCheck{Label: "LLM api key", Kind: statusWarn, Message: "not set; analyze will fail"})
	} else {
		checks = append(checks, statusCheck{Label: "LLM api key", Kind: statusOK, Message: "set"})
	}
	switch cfg.Mail.Transport {
	case config.TransportNone:
		checks = append(checks, statusCheck{Label: "Mail transport", Kind: statusWarn, Message: "none; send is disabled"})
	case config.TransportOutbox:
		checks = append(checks, statusCheck{Label: "Mail transport", Kind: statusOK, Message: "outbox " + cfg.Paths.OutboxDir})
	default:
		checks = append(checks, statusCheck{Label: "Mail transport", Kind: statusOK, Message: cfg.Mail.Transport})
	}
	if cfg.Mail.From == "" {
		checks = append(checks, statusCheck{Label: "Sender", Kind: statusWarn, Message: "mail.from is empty"})
	} else {
		checks = append(checks, statusCheck{Label: "Sender", Kind: statusOK, Message: cfg.Mail.From})
	}
	return checks
}
