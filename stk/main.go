// Command stk manages stock portfolios stored as transaction logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/folio/cmd"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/metrics"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	cmd.Completion(cfg.DataDir).Complete(path.Base(os.Args[0]))

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	app := cmd.NewApp(cfg, logger)
	raw := flag.Bool("raw", false, "print markdown as is, without terminal rendering")
	dump := flag.Bool("metrics", false, "print price source metrics on exit")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander, app)

	flag.Parse()
	app.Raw = *raw
	status := commander.Execute(context.Background())
	if *dump {
		if err := metrics.Dump(os.Stderr); err != nil {
			logger.Warn("cannot dump metrics", zap.Error(err))
		}
	}
	logger.Sync()
	os.Exit(int(status))
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.DisableStacktrace = true
	return cfg.Build()
}
