// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/omnisearch"
	"github.com/poiesic/omnisearch/config"
	"github.com/poiesic/omnisearch/core"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "omnisearch",
		Usage: "Search the web, code hosts, papers and Q&A sites from one place",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   config.DefaultConfigPath(),
			},
		},
		Before:   setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Query providers and print results grouped by provider",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags:     []cli.Flag{providersFlag(), maxFlag(), jsonFlag(), traceFlag()},
			},
			{
				Name:      "combined",
				Usage:     "Query providers and print one list ranked by score",
				ArgsUsage: "<query>",
				Action:    combinedCommand,
				Flags:     []cli.Flag{providersFlag(), maxFlag(), jsonFlag(), traceFlag()},
			},
			{
				Name:      "folder",
				Usage:     "Search text files under a directory",
				ArgsUsage: "<query>",
				Action:    folderCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory to search",
						Required: true,
					},
					maxFlag(),
					jsonFlag(),
				},
			},
			{
				Name:   "status",
				Usage:  "Query every provider once and report whether it answers",
				Action: statusCommand,
				Flags:  []cli.Flag{jsonFlag()},
			},
			{
				Name:   "providers",
				Usage:  "List enabled providers",
				Action: providersCommand,
			},
			{
				Name:   "clear-cache",
				Usage:  "Remove every cached provider response",
				Action: clearCacheCommand,
			},
			{
				Name:   "repl",
				Usage:  "Interactive search session",
				Action: replCommand,
				Flags:  []cli.Flag{providersFlag(), maxFlag()},
			},
		},
	}
}

func providersFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "providers",
		Aliases: []string{"p"},
		Usage:   "Comma-separated provider names (default: all enabled)",
	}
}

func maxFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "max",
		Aliases: []string{"n"},
		Usage:   "Maximum number of results",
		Value:   core.DefaultMaxResults,
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print results as JSON",
	}
}

func traceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "trace",
		Usage: "Report cache and provider activity on stderr",
	}
}

// newEngine loads the configuration named by --config and builds an engine.
// Tests replace it to avoid network access.
var newEngine = func(c *cli.Context) (*omnisearch.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	return omnisearch.NewEngine(cfg, omnisearch.WithLogger(slog.Default()))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
