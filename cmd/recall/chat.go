package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sandevgo/recallbot/internal/transport/cli"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/sandevgo/recallbot/pkg/srv"
	"github.com/spf13/cobra"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat in the terminal, or answer one message and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer shutdownNow(ctx, a.services)

		if len(args) > 0 {
			reply := cli.Turn(ctx, a.agent, a.commands, chatUser, strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		}

		repl, err := cli.NewReadLine(a.agent, a.commands, a.cfg, chatUser)
		if err != nil {
			return err
		}
		srv.StartServices(ctx, a.services)
		defer repl.Shutdown(ctx)
		return repl.Start(ctx)
	},
}

// shutdownNow stops services without waiting for a signal.
func shutdownNow(ctx context.Context, services []srv.Service) {
	done, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cancel()
	srv.ShutdownServices(done, services)
	log.FromCtx(ctx).Debug().Msg("services stopped")
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", cli.DefaultUserID, "user id the conversation is stored under")
	rootCmd.AddCommand(chatCmd)
}
