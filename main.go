package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/jernejstrasner/taxes/src/cmd"
	"github.com/jernejstrasner/taxes/src/config"
	"github.com/jernejstrasner/taxes/src/logger"
)

func main() {
	config.Load()
	logger.Init(config.Cfg.LogLevel)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
