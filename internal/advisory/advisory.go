// Package advisory derives umbrella, outfit and rain-window advice from the
// current temperature and the extracted forecast blocks. Everything here is
// pure and deterministic.
package advisory

import (
	"strings"

	"github.com/i474232898/morning-briefing/internal/weather"
)

const (
	UmbrellaNeeded    = "Rain is possible today, so take an umbrella with you. ☔"
	UmbrellaNotNeeded = "No rain expected today. It looks like a pleasant day. ☀️"
)

const (
	OutfitVeryCold = "It's very cold today. A heavy coat and a scarf are a must. 🧣🧥"
	OutfitChilly   = "A chilly day ahead. A light jacket or trench coat will keep you comfortable. 🧥"
	OutfitCool     = "It may feel a little cool. A thin cardigan is a good idea. 🧶"
	OutfitWarm     = "A warm day. Light clothing will be comfortable. 👕"
	OutfitHot      = "It's hot today. Dress lightly and stay hydrated. 🥵"
)

const NoRainWindow = "No rain window in today's forecast."

// Used when the forecast could not be fetched.
const (
	UmbrellaUnknown   = "No forecast available. Check the sky before heading out and take an umbrella if in doubt. 🌂"
	RainWindowUnknown = "Rain window unknown without a forecast."
)

// Outfit ladder boundaries in °C. Each value is the inclusive lower bound of
// the next band: (-inf,10) [10,15) [15,20) [20,27) [27,+inf).
const (
	ChillyFrom = 10.0
	CoolFrom   = 15.0
	WarmFrom   = 20.0
	HotFrom    = 27.0
)

// Result is the derived advice for one briefing.
type Result struct {
	NeedsUmbrella  bool   `json:"needsUmbrella"`
	UmbrellaText   string `json:"umbrellaText"`
	OutfitText     string `json:"outfitText"`
	RainWindowText string `json:"rainWindowText"`
}

// Evaluate derives all advice at once.
func Evaluate(temperatureC float64, blocks []weather.ForecastBlock) Result {
	needs, text := Umbrella(blocks)
	return Result{
		NeedsUmbrella:  needs,
		UmbrellaText:   text,
		OutfitText:     Outfit(temperatureC),
		RainWindowText: RainWindow(blocks),
	}
}

// EvaluateWithoutForecast derives advice when no forecast is available. It
// never claims the day is dry.
func EvaluateWithoutForecast(temperatureC float64) Result {
	return Result{
		UmbrellaText:   UmbrellaUnknown,
		OutfitText:     Outfit(temperatureC),
		RainWindowText: RainWindowUnknown,
	}
}

// Umbrella reports whether any block is rain-relevant.
func Umbrella(blocks []weather.ForecastBlock) (bool, string) {
	for _, b := range blocks {
		if b.RainRelevant {
			return true, UmbrellaNeeded
		}
	}
	return false, UmbrellaNotNeeded
}

// Outfit picks exactly one phrasing from the temperature ladder.
// NaN lands in the last band.
func Outfit(temperatureC float64) string {
	switch {
	case temperatureC < ChillyFrom:
		return OutfitVeryCold
	case temperatureC < CoolFrom:
		return OutfitChilly
	case temperatureC < WarmFrom:
		return OutfitCool
	case temperatureC < HotFrom:
		return OutfitWarm
	default:
		return OutfitHot
	}
}

// RainWindow lists the rain-relevant block labels in order.
func RainWindow(blocks []weather.ForecastBlock) string {
	var labels []string
	for _, b := range blocks {
		if b.RainRelevant {
			labels = append(labels, b.Label)
		}
	}
	if len(labels) == 0 {
		return NoRainWindow
	}
	return "Rain likely during " + strings.Join(labels, ", ") + "."
}
