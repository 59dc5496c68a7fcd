package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/recallbot/internal/transport/mcp"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/sandevgo/recallbot/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve stored facts and history as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		// no llm providers needed: only the stores are exposed
		appCfg := loadAppConfig(ctx)
		st, err := initStores(ctx, appCfg)
		if err != nil {
			log.FromCtx(ctx).Fatal().Err(err).Msg("failed to initialize storage")
		}
		defer shutdownNow(ctx, []srv.Service{srv.NewCleanup("sqlite", st.db.Close)})

		return mcp.NewServer(st.facts, st.history).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
