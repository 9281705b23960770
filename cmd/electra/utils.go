// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/electra/cmd/electra/scenario"
	"github.com/vechain/electra/log"
)

func fatal(args ...interface{}) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

// initLogger sets the process logger from the verbosity and json-logs flags.
// Verbosity beyond the legacy trace level is clamped.
func initLogger(ctx *cli.Context) {
	lvl := int(ctx.Uint64(verbosityFlag.Name))
	if lvl > log.LegacyLevelTrace {
		lvl = log.LegacyLevelTrace
	}
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, level)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

// normalizeCacheSize sizes the election result cache from the cache flag,
// megabytes of ram capped at half the physical memory. A memoized committee
// stays well under 16KB, so the configured megabytes convert to an entry
// bound at that unit size.
func normalizeCacheSize(ctx *cli.Context) int {
	sizeMB := int(ctx.Uint64(cacheFlag.Name))
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB * 64
}

// loadScenario reads the scenario file named by the command's argument.
func loadScenario(ctx *cli.Context) *scenario.Scenario {
	path := ctx.Args().First()
	if path == "" {
		cli.ShowAppHelp(ctx)
		fmt.Println("scenario file not specified")
		os.Exit(1)
	}
	scn, err := scenario.Load(path)
	if err != nil {
		fatal(fmt.Sprintf("load scenario [%v]: %v", path, err))
	}
	return scn
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printReport(report *scenario.Report) {
	fmt.Printf(`Replayed "%v"
    Steps      [ %v ]
    Ledger     [ version %v, epoch %v ]
    Votes      [ total %v, active %v, pending %v ]
    Elections  [ %v ]
    Digest     [ %v ]
`,
		report.Name,
		report.Steps,
		report.Version, report.Epoch,
		report.TotalVotes, report.ActiveVotes, report.PendingVotes,
		len(report.Elections),
		report.Digest,
	)

	for _, e := range report.Elections {
		fmt.Printf("    Committee of step %v:\n", e.Step)
		for _, signer := range e.Signers {
			fmt.Printf("        %v\n", signer)
		}
	}

	if len(report.Rankings) == 0 {
		return
	}
	groupCol, votesCol := strings.Repeat("─", 44), strings.Repeat("─", 33)
	fmt.Printf("┌%v┬%v┐\n", groupCol, votesCol)
	fmt.Printf("│%-44v│%33v│\n", "                    Group", "Votes              ")
	fmt.Printf("├%v┼%v┤\n", groupCol, votesCol)
	for _, r := range report.Rankings {
		fmt.Printf("│ %v │ %31v │\n", r.Group, r.Votes)
	}
	fmt.Printf("└%v┴%v┘\n", groupCol, votesCol)
}
