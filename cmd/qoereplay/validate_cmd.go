// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/playbackqoe/internal/config"
)

func newValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(*configPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid (transport=%s, topic_prefix=%s)\n",
				cfg.Forwarder.Transport, cfg.Forwarder.TopicPrefix)
			return err
		},
	}
}
