// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/tomtom215/playbackqoe/internal/config"
	"github.com/tomtom215/playbackqoe/internal/forwarder"
	"github.com/tomtom215/playbackqoe/internal/logging"
	"github.com/tomtom215/playbackqoe/internal/qoe"
	"github.com/tomtom215/playbackqoe/internal/replay"
)

type runOptions struct {
	configPath  string
	input       string
	speed       float64
	speedSet    bool
	dumpMetrics bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRunCmd(configPath *string) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Replay an event log and print the forwarded records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath = *configPath
			if len(args) == 1 {
				opts.input = args[0]
			}
			opts.speedSet = cmd.Flags().Changed("speed")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runReplay(cmd.Context(), opts)
		},
	}

	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "scale recorded delays between entries (0 replays without delay)")
	cmd.Flags().BoolVar(&opts.dumpMetrics, "metrics", false, "print Prometheus metrics to stderr when done")
	return cmd
}

// runReplay wires config, logging, the forwarder and the adapter, then replays
// the log.
func runReplay(ctx context.Context, opts *runOptions) error {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return err
	}
	if opts.input != "" {
		cfg.Replay.Input = opts.input
	}
	if opts.speedSet {
		cfg.Replay.Speed = opts.speed
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    opts.stderr,
	})
	logger := logging.WithComponent("qoereplay")

	in, closeInput, err := openInput(cfg.Replay.Input, opts.stdin)
	if err != nil {
		return err
	}
	defer closeInput()

	fwd, err := forwarder.New(&cfg.Forwarder, logging.Logger())
	if err != nil {
		return fmt.Errorf("start forwarder: %w", err)
	}
	defer func() {
		if err := fwd.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing forwarder")
		}
	}()

	subCtx, cancelSub := context.WithCancel(ctx)
	defer cancelSub()
	records, err := fwd.Subscribe(subCtx)
	if err != nil {
		return fmt.Errorf("subscribe to records: %w", err)
	}

	var printed int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		enc := json.NewEncoder(opts.stdout)
		for rec := range records {
			if err := enc.Encode(rec); err != nil {
				logger.Error().Err(err).Msg("Failed to write record")
				continue
			}
			printed++
		}
	}()

	p := replay.NewPlayer()
	clock := replay.NewClock()
	adapter, err := qoe.New(p, cfg.Analytics.CustomerKey, qoe.Config{
		GatewayURL:          cfg.Analytics.GatewayURL,
		DebugLoggingEnabled: cfg.Analytics.DebugLoggingEnabled,
		LogLevel:            cfg.Analytics.LogLevel,
	}, fwd,
		qoe.WithEndSessionOnSourceUnloaded(cfg.Analytics.EndSessionOnSourceUnloaded),
		qoe.WithEndSessionOnPlaybackError(cfg.Analytics.EndSessionOnPlaybackError),
		qoe.WithLive(cfg.Analytics.IsLive),
		qoe.WithStallDebounce(cfg.Analytics.StallDebounce),
		qoe.WithScheduler(clock),
	)
	if err != nil {
		cancelSub()
		wg.Wait()
		return fmt.Errorf("attach adapter: %w", err)
	}

	stats, runErr := replay.NewRunner(p, clock, adapter, cfg.Replay.Speed, logger).Run(ctx, replay.NewReader(in))

	// Release publishes the final records; the subscription is drained after.
	adapter.Release()
	cancelSub()
	wg.Wait()

	logger.Info().
		Int("entries", stats.Entries).
		Int("events", stats.Events).
		Int("actions", stats.Actions).
		Int("failed_actions", stats.Failed).
		Int("records", printed).
		Msg("Replay finished")

	if opts.dumpMetrics {
		if err := writeMetrics(opts.stderr, prometheus.DefaultGatherer); err != nil {
			logger.Error().Err(err).Msg("Failed to write metrics")
		}
	}

	if runErr != nil {
		return fmt.Errorf("replay %s: %w", cfg.Replay.Input, runErr)
	}
	return nil
}

// openInput opens path, or returns stdin for "-".
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// writeMetrics prints the gathered metric families in text exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
