// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

// Package adposition classifies loosely formatted ad position strings, as
// found in VAST/VMAP ad schedules, into preroll, midroll or postroll.
//
// Accepted forms are "pre", "post", "<int>%" and colon-delimited time offsets
// "[[[D:]H:]M:]S[.fff]". Anything else classifies as preroll.
package adposition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tomtom215/playbackqoe/internal/models"
)

var positionPattern = regexp.MustCompile(`^(pre|post|\d+%|(\d+:){0,3}\d+(\.\d+)?)$`)

// timeUnits are the multipliers for offset fields, right to left.
var timeUnits = [...]float64{1, 60, 3600, 86400}

// Parse classifies position against the content duration in seconds.
// A nil or unrecognized position is a preroll.
//
// Time offsets equal to contentDuration are postrolls. The comparison is exact.
func Parse(position *string, contentDuration float64) models.AdPosition {
	if position == nil {
		return models.AdPositionPreroll
	}
	p := *position
	if !positionPattern.MatchString(p) {
		return models.AdPositionPreroll
	}

	switch {
	case strings.Contains(p, "%"):
		return parsePercentage(p)
	case strings.Contains(p, ":"):
		return parseOffset(p, contentDuration)
	case p == "pre":
		return models.AdPositionPreroll
	case p == "post":
		return models.AdPositionPostroll
	default:
		return models.AdPositionMidroll
	}
}

func parsePercentage(p string) models.AdPosition {
	pct, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
	if err != nil {
		return models.AdPositionMidroll
	}
	switch pct {
	case 0:
		return models.AdPositionPreroll
	case 100:
		return models.AdPositionPostroll
	default:
		return models.AdPositionMidroll
	}
}

func parseOffset(p string, contentDuration float64) models.AdPosition {
	seconds := Seconds(p)
	switch seconds {
	case 0:
		return models.AdPositionPreroll
	case contentDuration:
		return models.AdPositionPostroll
	default:
		return models.AdPositionMidroll
	}
}

// Seconds converts a colon-delimited offset to seconds. Fields beyond days
// are ignored; unparseable fields count as zero.
func Seconds(offset string) float64 {
	parts := strings.Split(offset, ":")
	var total float64
	for i := 0; i < len(parts) && i < len(timeUnits); i++ {
		v, err := strconv.ParseFloat(parts[len(parts)-1-i], 64)
		if err != nil {
			continue
		}
		total += v * timeUnits[i]
	}
	return total
}
