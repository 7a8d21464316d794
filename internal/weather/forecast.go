package weather

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/i474232898/morning-briefing/internal/common"
)

// BlockHours is the provider forecast granularity.
const BlockHours = 3

// WindowOptions controls which forecast points become blocks and how
// rain relevance is judged.
type WindowOptions struct {
	StartHour int // inclusive, local
	EndHour   int // inclusive, local

	// Location is the time zone used for every local-time conversion.
	// Nil means UTC.
	Location *time.Location

	RainThresholdPercent int
	RainKeywords         []string
}

// ExtractWindow filters points to the local calendar date of localDate and
// the configured hour window, sorts them and maps them to blocks.
// The result is strictly time-ordered; a point that starts inside the span
// of the previous block (including duplicated timestamps) is dropped.
func ExtractWindow(points []ForecastPoint, localDate time.Time, opts WindowOptions) []ForecastBlock {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	year, month, day := localDate.In(loc).Date()

	kept := make([]ForecastPoint, 0, len(points))
	for _, p := range points {
		local := p.Timestamp.In(loc)
		y, m, d := local.Date()
		if y != year || m != month || d != day {
			continue
		}
		if h := local.Hour(); h < opts.StartHour || h > opts.EndHour {
			continue
		}
		p.Timestamp = local
		kept = append(kept, p)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Timestamp.Before(kept[j].Timestamp)
	})

	blocks := make([]ForecastBlock, 0, len(kept))
	nextHour := -1
	for _, p := range kept {
		hour := p.Timestamp.Hour()
		if hour < nextHour {
			continue
		}
		pop := PopPercent(p.PrecipProbability)
		blocks = append(blocks, ForecastBlock{
			Start:        p.Timestamp,
			Label:        BlockLabel(hour),
			Description:  p.Description,
			PopPercent:   pop,
			RainRelevant: opts.IsRainRelevant(p.Description, pop),
		})
		nextHour = hour + BlockHours
	}
	return blocks
}

// IsRainRelevant reports whether a block with the given description and
// precipitation probability should be treated as rainy.
func (o WindowOptions) IsRainRelevant(description string, popPercent int) bool {
	return common.HasAny(description, o.RainKeywords...) || popPercent > o.RainThresholdPercent
}

// PopPercent converts a 0..1 probability into a rounded, clamped percentage.
func PopPercent(p float64) int {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	if p >= 1 {
		return 100
	}
	return int(math.Round(p * 100))
}

// BlockLabel renders the [hour, hour+3) range label, e.g. "15:00-18:00".
func BlockLabel(hour int) string {
	return fmt.Sprintf("%02d:00-%02d:00", hour, hour+BlockHours)
}
