package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/firebird-suite/wren/internal/commands"
	"github.com/simonhull/firebird-suite/wren/internal/output"
)

func main() {
	env := commands.DefaultEnv()
	rootCmd := commands.RootCmd(env)

	rootCmd.AddCommand(commands.MakeCmd(env))
	rootCmd.AddCommand(commands.BundlesCmd(env))
	rootCmd.AddCommand(commands.TemplatesCmd(env))
	rootCmd.AddCommand(commands.MergeCmd(env))
	rootCmd.AddCommand(commands.ConfigCmd(env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
