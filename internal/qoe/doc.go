// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

/*
Package qoe is the public face of the playback analytics adapter.

An Adapter attaches to one player for its lifetime. It subscribes to the
player's events, keeps the analytics session in step with playback and
forwards everything to the sink produced by an analytics.Connector.

	adapter, err := qoe.New(p, customerKey, qoe.Config{
	    GatewayURL: "https://collector.example.com",
	}, connector, qoe.WithLive(false))
	if err != nil {
	    return err
	}
	defer adapter.Release()

	adapter.UpdateContentMetadata(models.ContentMetadata{
	    ViewerID: models.Ptr("viewer-42"),
	})

Sessions open on the first play event or an explicit InitializeSession and
close on playback end, destroy, source unload or a fatal error. Server-side
inserted ads are reported through SSAI().

Only InitializeSession returns an error during normal use. Every other call is
a safe no-op when it does not apply to the current state.
*/
package qoe
