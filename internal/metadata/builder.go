// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package metadata

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/playbackqoe/internal/models"
)

// ContentBuilder produces the content payload. Getters return the effective
// (override-or-base) value, setters write the base layer.
type ContentBuilder struct {
	*Store[models.ContentMetadata]
}

// NewContentBuilder creates an empty content builder.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewContentBuilder(logger zerolog.Logger) *ContentBuilder {
	return &ContentBuilder{Store: NewStore[models.ContentMetadata](ContentSchema{}, logger)}
}

// AssetName returns the effective asset name.
func (b *ContentBuilder) AssetName() *string {
	return b.Effective().AssetName
}

// SetAssetName sets the base asset name.
func (b *ContentBuilder) SetAssetName(name string) {
	b.Base().AssetName = &name
}

// ViewerID returns the effective viewer id.
func (b *ContentBuilder) ViewerID() *string {
	return b.Effective().ViewerID
}

// SetViewerID sets the base viewer id.
func (b *ContentBuilder) SetViewerID(id string) {
	b.Base().ViewerID = &id
}

// ApplicationName returns the effective application name.
func (b *ContentBuilder) ApplicationName() *string {
	return b.Effective().ApplicationName
}

// SetApplicationName sets the base application name.
func (b *ContentBuilder) SetApplicationName(name string) {
	b.Base().ApplicationName = &name
}

// StreamType returns the effective stream type.
func (b *ContentBuilder) StreamType() *models.StreamType {
	return b.Effective().StreamType
}

// SetStreamType sets the base stream type.
func (b *ContentBuilder) SetStreamType(st models.StreamType) {
	b.Base().StreamType = &st
}

// Custom returns the effective custom tags, overrides winning per key.
func (b *ContentBuilder) Custom() models.Attributes {
	return b.Effective().Custom
}

// SetCustom replaces the base custom tags.
func (b *ContentBuilder) SetCustom(custom models.Attributes) {
	b.Base().Custom = custom.Clone()
}

// Duration returns the effective duration in seconds.
func (b *ContentBuilder) Duration() *int {
	return b.Effective().Duration
}

// SetDuration sets the base duration in seconds.
func (b *ContentBuilder) SetDuration(secs int) {
	b.Base().Duration = &secs
}

// EncodedFramerate returns the effective encoded framerate.
func (b *ContentBuilder) EncodedFramerate() *int {
	return b.Effective().EncodedFramerate
}

// SetEncodedFramerate sets the base encoded framerate.
func (b *ContentBuilder) SetEncodedFramerate(fps int) {
	b.Base().EncodedFramerate = &fps
}

// DefaultResource returns the effective default resource.
func (b *ContentBuilder) DefaultResource() *string {
	return b.Effective().DefaultResource
}

// SetDefaultResource sets the base default resource.
func (b *ContentBuilder) SetDefaultResource(resource string) {
	b.Base().DefaultResource = &resource
}

// StreamURL returns the effective stream URL.
func (b *ContentBuilder) StreamURL() *string {
	return b.Effective().StreamURL
}

// SetStreamURL sets the base stream URL.
func (b *ContentBuilder) SetStreamURL(url string) {
	b.Base().StreamURL = &url
}

// AdBuilder produces the payload for the current ad. Overrides survive from
// one ad to the next until Reset.
type AdBuilder struct {
	*Store[models.AdMetadata]
}

// NewAdBuilder creates an empty ad builder.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAdBuilder(logger zerolog.Logger) *AdBuilder {
	return &AdBuilder{Store: NewStore[models.AdMetadata](AdSchema{}, logger)}
}

// StartAd begins a new ad: base layer and accumulated payload are replaced,
// overrides are kept.
func (b *AdBuilder) StartAd(base models.AdMetadata) {
	b.resetOutput()
	*b.Base() = base.Clone()
}

// EndAd drops the current ad's base layer and payload. Overrides are kept.
func (b *AdBuilder) EndAd() {
	b.resetOutput()
}

// Patch copies the set fields of patch into the base layer. Custom keys are
// merged.
func (b *AdBuilder) Patch(patch models.AdMetadata) {
	base := b.Base()
	base.AssetName = models.Coalesce(patch.AssetName, base.AssetName)
	base.AdID = models.Coalesce(patch.AdID, base.AdID)
	base.AdSystem = models.Coalesce(patch.AdSystem, base.AdSystem)
	base.Position = models.Coalesce(patch.Position, base.Position)
	base.StreamType = models.Coalesce(patch.StreamType, base.StreamType)
	base.Custom = models.MergeAttributes(base.Custom, patch.Custom)
	base.Duration = models.Coalesce(patch.Duration, base.Duration)
	base.EncodedFramerate = models.Coalesce(patch.EncodedFramerate, base.EncodedFramerate)
	base.DefaultResource = models.Coalesce(patch.DefaultResource, base.DefaultResource)
	base.StreamURL = models.Coalesce(patch.StreamURL, base.StreamURL)
}

// AssetName returns the effective asset name.
func (b *AdBuilder) AssetName() *string {
	return b.Effective().AssetName
}

// SetAssetName sets the base asset name.
func (b *AdBuilder) SetAssetName(name string) {
	b.Base().AssetName = &name
}

// Position returns the effective ad position.
func (b *AdBuilder) Position() *models.AdPosition {
	return b.Effective().Position
}

// SetPosition sets the base ad position.
func (b *AdBuilder) SetPosition(p models.AdPosition) {
	b.Base().Position = &p
}

// SetEncodedFramerate sets the base encoded framerate.
func (b *AdBuilder) SetEncodedFramerate(fps int) {
	b.Base().EncodedFramerate = &fps
}

// SetStreamURL sets the base stream URL.
func (b *AdBuilder) SetStreamURL(url string) {
	b.Base().StreamURL = &url
}

// SetDefaultResource sets the base default resource.
func (b *AdBuilder) SetDefaultResource(resource string) {
	b.Base().DefaultResource = &resource
}
