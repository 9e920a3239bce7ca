// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package metadata

import (
	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/models"
)

// ContentSchema merges and projects models.ContentMetadata.
type ContentSchema struct{}

// Merge implements Schema.
func (ContentSchema) Merge(base, overrides models.ContentMetadata) models.ContentMetadata {
	return models.ContentMetadata{
		AssetName:        models.Coalesce(overrides.AssetName, base.AssetName),
		ViewerID:         models.Coalesce(overrides.ViewerID, base.ViewerID),
		ApplicationName:  models.Coalesce(overrides.ApplicationName, base.ApplicationName),
		StreamType:       models.Coalesce(overrides.StreamType, base.StreamType),
		Custom:           models.MergeAttributes(base.Custom, overrides.Custom),
		Duration:         models.Coalesce(overrides.Duration, base.Duration),
		EncodedFramerate: models.Coalesce(overrides.EncodedFramerate, base.EncodedFramerate),
		DefaultResource:  models.Coalesce(overrides.DefaultResource, base.DefaultResource),
		StreamURL:        models.Coalesce(overrides.StreamURL, base.StreamURL),
	}
}

// Project implements Schema. The asset name is written once per session.
func (ContentSchema) Project(eff models.ContentMetadata, info models.Attributes, playbackStarted bool) {
	setOnce(info, analytics.KeyAssetName, eff.AssetName)

	if !playbackStarted {
		setString(info, analytics.KeyViewerID, eff.ViewerID)
		setString(info, analytics.KeyApplicationName, eff.ApplicationName)
		setStreamType(info, eff.StreamType)
		setCustom(info, eff.Custom)
	}

	setDuration(info, eff.Duration, playbackStarted)

	setDynamicInt(info, analytics.KeyEncodedFramerate, eff.EncodedFramerate)
	setDynamicString(info, analytics.KeyDefaultResource, eff.DefaultResource)
	setDynamicString(info, analytics.KeyStreamURL, eff.StreamURL)
}

// AdSchema merges and projects models.AdMetadata.
type AdSchema struct{}

// Merge implements Schema.
func (AdSchema) Merge(base, overrides models.AdMetadata) models.AdMetadata {
	return models.AdMetadata{
		AssetName:        models.Coalesce(overrides.AssetName, base.AssetName),
		AdID:             models.Coalesce(overrides.AdID, base.AdID),
		AdSystem:         models.Coalesce(overrides.AdSystem, base.AdSystem),
		Position:         models.Coalesce(overrides.Position, base.Position),
		StreamType:       models.Coalesce(overrides.StreamType, base.StreamType),
		Custom:           models.MergeAttributes(base.Custom, overrides.Custom),
		Duration:         models.Coalesce(overrides.Duration, base.Duration),
		EncodedFramerate: models.Coalesce(overrides.EncodedFramerate, base.EncodedFramerate),
		DefaultResource:  models.Coalesce(overrides.DefaultResource, base.DefaultResource),
		StreamURL:        models.Coalesce(overrides.StreamURL, base.StreamURL),
	}
}

// Project implements Schema. The asset name is written once per ad.
func (AdSchema) Project(eff models.AdMetadata, info models.Attributes, playbackStarted bool) {
	setOnce(info, analytics.KeyAssetName, eff.AssetName)

	if !playbackStarted {
		setString(info, analytics.KeyAdID, eff.AdID)
		setString(info, analytics.KeyAdSystem, eff.AdSystem)
		if eff.Position != nil {
			info[analytics.KeyAdPosition] = models.StringValue(string(*eff.Position))
		}
		setStreamType(info, eff.StreamType)
		setCustom(info, eff.Custom)
	}

	setDuration(info, eff.Duration, playbackStarted)

	setDynamicInt(info, analytics.KeyEncodedFramerate, eff.EncodedFramerate)
	setDynamicString(info, analytics.KeyDefaultResource, eff.DefaultResource)
	setDynamicString(info, analytics.KeyStreamURL, eff.StreamURL)
}

func setOnce(info models.Attributes, key string, v *string) {
	if v == nil || *v == "" {
		return
	}
	if _, ok := info[key]; ok {
		return
	}
	info[key] = models.StringValue(*v)
}

func setString(info models.Attributes, key string, v *string) {
	if v != nil {
		info[key] = models.StringValue(*v)
	}
}

func setStreamType(info models.Attributes, st *models.StreamType) {
	if st != nil {
		info[analytics.KeyStreamType] = models.StringValue(string(*st))
	}
}

func setCustom(info models.Attributes, custom models.Attributes) {
	for k, v := range custom {
		if v.IsValid() {
			info[k] = v
		}
	}
}

// setDuration writes a positive duration before playback starts. Afterwards it
// only repairs a missing or zero duration.
func setDuration(info models.Attributes, d *int, playbackStarted bool) {
	if d == nil || *d <= 0 {
		return
	}
	if playbackStarted {
		if recorded, ok := info[analytics.KeyDuration].Int(); ok && recorded != 0 {
			return
		}
	}
	info[analytics.KeyDuration] = models.IntValue(int64(*d))
}

func setDynamicString(info models.Attributes, key string, v *string) {
	if v == nil {
		delete(info, key)
		return
	}
	info[key] = models.StringValue(*v)
}

func setDynamicInt(info models.Attributes, key string, v *int) {
	if v == nil {
		delete(info, key)
		return
	}
	info[key] = models.IntValue(int64(*v))
}
