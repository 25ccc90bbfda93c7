package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	overHoursRe     = regexp.MustCompile(`over\s*(\d+(?:\.\d+)?)\s*hours?`)
	moreThanHoursRe = regexp.MustCompile(`more\s+than\s*(\d+(?:\.\d+)?)\s*hours?`)
	aroundHoursRe   = regexp.MustCompile(`(?:around|about)\s*(\d+(?:\.\d+)?)\s*hours?`)
	rangeHoursRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*hours?`)
	hourMinuteRe    = regexp.MustCompile(`(\d+)\s*(?:hours?|hrs?)\s*(\d+)\s*(?:minutes?|mins?)`)
	fractionHourRe  = regexp.MustCompile(`(\d+)\s*/\s*(\d+)\s*hours?`)
	hoursRe         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)`)
	minutesRe       = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?)`)
	numberRe        = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

var unavailableWaitTexts = map[string]struct{}{
	"":              {},
	"n/a":           {},
	"not available": {},
	"nil":           {},
	"-":             {},
}

// Longest wait accepted from the feed; anything larger is garbage.
const maxWaitMinutes = 48 * 60

// ParseWaitText converts an upstream wait description ("Over 2 hours",
// "Around 1 hour", "45 minutes") into minutes.
// It reports false when the text carries no usable number or the number is
// out of range.
func ParseWaitText(text string) (int, bool) {
	s := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if _, ok := unavailableWaitTexts[s]; ok {
		return 0, false
	}

	if m := overHoursRe.FindStringSubmatch(s); m != nil {
		return hoursPlus(m[1], 30)
	}

	if m := moreThanHoursRe.FindStringSubmatch(s); m != nil {
		return hoursPlus(m[1], 15)
	}

	if m := aroundHoursRe.FindStringSubmatch(s); m != nil {
		return hoursPlus(m[1], 0)
	}

	if m := rangeHoursRe.FindStringSubmatch(s); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo != nil || errHi != nil {
			return 0, false
		}
		return toMinutes((lo + hi) / 2 * 60)
	}

	if m := hourMinuteRe.FindStringSubmatch(s); m != nil {
		h, errH := strconv.ParseFloat(m[1], 64)
		mins, errM := strconv.ParseFloat(m[2], 64)
		if errH != nil || errM != nil {
			return 0, false
		}
		return toMinutes(h*60 + mins)
	}

	if m := fractionHourRe.FindStringSubmatch(s); m != nil {
		num, errN := strconv.ParseFloat(m[1], 64)
		den, errD := strconv.ParseFloat(m[2], 64)
		if errN != nil || errD != nil || den == 0 {
			return 0, false
		}
		return toMinutes(num / den * 60)
	}

	if m := hoursRe.FindStringSubmatch(s); m != nil {
		return hoursPlus(m[1], 0)
	}

	if m := minutesRe.FindStringSubmatch(s); m != nil {
		mins, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return toMinutes(mins)
	}

	// Bare number: small values and anything mentioning hours are hours.
	if m := numberRe.FindString(s); m != "" {
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		if strings.Contains(s, "hour") || n <= 12 {
			return toMinutes(n * 60)
		}
		return toMinutes(n)
	}

	return 0, false
}

func hoursPlus(v string, extra float64) (int, bool) {
	h, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return toMinutes(h*60 + extra)
}

func toMinutes(m float64) (int, bool) {
	if math.IsNaN(m) || m < 0 || m > maxWaitMinutes {
		return 0, false
	}
	return int(math.Round(m)), true
}
