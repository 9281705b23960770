// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/electra/api"
	"github.com/vechain/electra/cmd/electra/httpserver"
	"github.com/vechain/electra/cmd/electra/scenario"
	"github.com/vechain/electra/log"
	"github.com/vechain/electra/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Electra",
		Usage:     "Validator election and vote accounting engine",
		Copyright: "2026 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:      "replay",
				Usage:     "Replay a scenario file and print the election report",
				ArgsUsage: "SCENARIO",
				Flags: []cli.Flag{
					verbosityFlag,
					jsonLogsFlag,
					cacheFlag,
				},
				Action: replayAction,
			},
			{
				Name:      "serve",
				Usage:     "Replay a scenario file and serve the election API over the result",
				ArgsUsage: "SCENARIO",
				Flags: []cli.Flag{
					verbosityFlag,
					jsonLogsFlag,
					cacheFlag,
					apiAddrFlag,
					apiCorsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func replayAction(ctx *cli.Context) error {
	initLogger(ctx)

	_, report, err := replay(ctx)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func serveAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeMetrics, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		log.Info("metrics server started", "url", url)
		defer func() { log.Info("stopping metrics server..."); closeMetrics() }()
	}

	runner, report, err := replay(ctx)
	if err != nil {
		return err
	}
	printReport(report)

	engine := runner.Engine()
	defer func() { log.Info("closing election engine..."); engine.Close() }()

	handler, apiCloser := api.New(engine, runner.Stake(), api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
	})
	apiURL, closeAPI, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), handler, apiCloser)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); closeAPI() }()

	fmt.Printf("    API portal [ %v ]\n", apiURL)

	exitSignal := handleExitSignal()
	<-exitSignal.Done()
	return nil
}

// replay loads the scenario named by the command argument and runs it behind
// a progress bar.
func replay(ctx *cli.Context) (*scenario.Runner, *scenario.Report, error) {
	scn := loadScenario(ctx)
	runner, err := scenario.New(scn, normalizeCacheSize(ctx))
	if err != nil {
		return nil, nil, err
	}

	bar := pb.New64(int64(len(scn.Steps))).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	report, err := runner.Run(func(done, total int) {
		bar.Add64(1)
	})
	if err != nil {
		return nil, nil, err
	}
	bar.Finish()
	return runner, report, nil
}
