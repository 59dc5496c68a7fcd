package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/recallbot/internal/transport/cli"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/spf13/cobra"
)

var importUser string

var importCmd = &cobra.Command{
	Use:          "import [file...]",
	Short:        "Store text files in long-term memory",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		a := newApp(ctx)
		defer shutdownNow(ctx, a.services)

		total := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			n, err := a.manager.Import(ctx, importUser, string(data), "import:"+filepath.Base(path))
			if err != nil {
				return fmt.Errorf("import %s: stored %d fragments before failing: %w", path, n, err)
			}
			logger.Info().Str("file", path).Int("fragments", n).Msg("imported")
			total += n
		}

		fmt.Fprintf(cmd.OutOrStdout(), "stored %d fragments for %s\n", total, importUser)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importUser, "user", "u", cli.DefaultUserID, "user id the fragments belong to")
	rootCmd.AddCommand(importCmd)
}
