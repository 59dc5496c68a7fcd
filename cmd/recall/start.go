package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/transport/cli"
	"github.com/sandevgo/recallbot/internal/transport/telegram"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/sandevgo/recallbot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the configured transports",
	Long:  `Starts the Telegram bot and/or the terminal chat (ENABLE_TELEGRAM, ENABLE_CLI) plus background workers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting recallbot")

		a := newApp(ctx)
		services := append(a.services, initTransports(ctx, a, stop)...)

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("recallbot has been shut down gracefully")
		return nil
	},
}

func initTransports(ctx context.Context, a *app, stop context.CancelFunc) []srv.Service {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	if a.cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.agent, a.commands)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if a.cfg.EnableCLI {
		repl, err := cli.NewReadLine(a.agent, a.commands, a.cfg, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize terminal chat")
		}
		services = append(services, &untilDone{Service: repl, stop: stop})
	}

	if len(services) == 0 {
		logger.Warn().Msg("no transport enabled, set ENABLE_TELEGRAM or ENABLE_CLI")
	}
	return services
}

// untilDone stops the whole process once a foreground service returns,
// so typing "exit" in the terminal ends the run.
type untilDone struct {
	srv.Service
	stop context.CancelFunc
}

func (u *untilDone) Start(ctx context.Context) error {
	defer u.stop()
	return u.Service.Start(ctx)
}

func init() {
	rootCmd.AddCommand(startCmd)
}
