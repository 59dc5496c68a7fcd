package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/service/installer"
	"github.com/sandevgo/recallbot/internal/service/ui"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	forceInit    bool
	templateInit bool
)

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Configure providers, Telegram and storage interactively",
	Long:         `Runs the setup wizard and writes <runtime>/.env. With --template an empty template is written instead, for editing by hand.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		envPath := filepath.Join(config.GetRuntimePath(), ".env")
		if _, err := os.Stat(envPath); err == nil && !forceInit {
			return fmt.Errorf("%s already exists, use --force to overwrite", envPath)
		}

		if templateInit {
			if err := installer.WriteEnv(envPath, installer.TemplateEnv(), forceInit); err != nil {
				return err
			}
			logger.Info().Str("path", envPath).Msg("wrote .env template")
			fmt.Fprintln(cmd.OutOrStdout(), ui.TitleStyle.Render("Edit "+envPath+" then run 'recall start'."))
			return nil
		}

		state, err := installer.RunWizard(envPath, forceInit)
		if err != nil {
			return err
		}

		logger.Info().Str("path", envPath).Strs("providers", state.Providers).Msg("configuration saved")
		fmt.Fprintln(cmd.OutOrStdout(), ui.TitleStyle.Render("Setup complete. Run 'recall start'."))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing .env")
	initCmd.Flags().BoolVar(&templateInit, "template", false, "write an empty template instead of running the wizard")
	rootCmd.AddCommand(initCmd)
}
