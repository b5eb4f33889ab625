package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "echovoice",
	Short: "EchoVoice — grounded voice agent server",
	Long:  `EchoVoice runs document-grounded voice and text conversation agents over HTTP.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
