// Bazzite Sunshine Manager
// Copyright (c) 2026 The Bazzite Sunshine Manager Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Bazzite Sunshine Manager.
//
// Bazzite Sunshine Manager is free software: you can redistribute it and/or
// modify it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Bazzite Sunshine Manager is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Bazzite Sunshine Manager.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/cli"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/config"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/importer"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	if *flags.Version {
		_, _ = fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		return nil
	}

	if os.Geteuid() == 0 {
		return errors.New("refusing to run as root, Sunshine's config belongs to the desktop user")
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	cfg, err := cli.Setup(
		filepath.Join(xdg.ConfigHome, config.AppName),
		filepath.Join(xdg.StateHome, config.AppName),
		config.BaseDefaults,
		os.LookupEnv,
		[]io.Writer{console},
	)
	if err != nil {
		return err
	}

	if err := flags.Apply(cfg); err != nil {
		return err
	}
	cli.SetLogLevel(cfg.DebugLogging())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := importer.Run(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("import failed")
		return fmt.Errorf("import failed: %w", err)
	}

	cli.PrintSummary(os.Stdout, &summary)
	return nil
}
