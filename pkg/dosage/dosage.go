package dosage

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Step is one step of a tapering schedule. Steps are an ordered sequence;
// the order drives the schedule narrative shown on the prescription.
type Step struct {
	StepNumber   int
	Dose         string
	Frequency    string
	DurationDays int
}

// namedFrequencies maps spoken frequency forms to doses per day.
// Keys must be lowercase.
var namedFrequencies = map[string]float64{
	"once daily":        1,
	"od":                1,
	"twice daily":       2,
	"bd":                2,
	"bid":               2,
	"three times daily": 3,
	"tds":               3,
	"tid":               3,
	"four times daily":  4,
	"qid":               4,
	"every 8 hours":     3,
	"every 12 hours":    2,
	"weekly":            1.0 / 7.0,
	"sos":               1,
	"stat":              1,
	"hs":                1,
	"qhs":               1,
	"qod":               0.5,
}

var (
	durationRangeRe  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)\s*(day|week|month)s?$`)
	durationSingleRe = regexp.MustCompile(`^(\d+)\s*(day|week|month)s?$`)
	durationBareRe   = regexp.MustCompile(`^(\d+)$`)
)

var unitDays = map[string]int{
	"day":   1,
	"week":  7,
	"month": 30,
}

// ParseDosesPerDay converts a frequency string into doses per day.
// Supported forms are dash-separated dose patterns like "1-0-1" or
// "1/2-0-1/2" and the named frequencies above. Anything else returns 0;
// the caller treats 0 as "could not compute", never as a zero dose.
func ParseDosesPerDay(frequency string) float64 {
	s := strings.ToLower(strings.TrimSpace(frequency))
	if s == "" {
		return 0
	}

	if perDay, ok := namedFrequencies[s]; ok {
		return perDay
	}

	if strings.Contains(s, "-") {
		return parseDashPattern(s)
	}

	// A lone segment like "1" or "1/2" is still a valid dose pattern
	if v, ok := parseDoseSegment(s); ok {
		return v
	}

	return 0
}

// parseDashPattern sums the segments of a "morning-noon-night" pattern.
// Any malformed segment invalidates the whole pattern.
func parseDashPattern(s string) float64 {
	total := 0.0
	for _, seg := range strings.Split(s, "-") {
		v, ok := parseDoseSegment(strings.TrimSpace(seg))
		if !ok {
			return 0
		}
		total += v
	}
	return total
}

// parseDoseSegment parses a single dose segment: an integer or a
// fraction "a/b". A zero denominator parses as 0 rather than failing.
func parseDoseSegment(seg string) (float64, bool) {
	if seg == "" {
		return 0, false
	}

	if num, den, ok := strings.Cut(seg, "/"); ok {
		n, errN := strconv.Atoi(strings.TrimSpace(num))
		d, errD := strconv.Atoi(strings.TrimSpace(den))
		if errN != nil || errD != nil {
			return 0, false
		}
		if d == 0 {
			return 0, true
		}
		return float64(n) / float64(d), true
	}

	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// ParseDurationDays converts a duration string into whole days.
// Range expressions like "3-5 days" use the larger bound. Unrecognized
// input returns 0.
func ParseDurationDays(duration string) int {
	s := strings.ToLower(strings.TrimSpace(duration))
	if s == "" {
		return 0
	}

	if m := durationRangeRe.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			hi = lo
		}
		return hi * unitDays[m[3]]
	}

	if m := durationSingleRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * unitDays[m[2]]
	}

	if m := durationBareRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}

	return 0
}

// CalculateQuantity derives a dispensing quantity from a frequency and a
// duration. Returns 0 when either side could not be parsed.
func CalculateQuantity(frequency, duration string) int {
	perDay := ParseDosesPerDay(frequency)
	days := ParseDurationDays(duration)
	if perDay <= 0 || days <= 0 {
		return 0
	}
	return int(math.Ceil(perDay * float64(days)))
}

// CalculateTaperedQuantity sums the dispensing quantity over an ordered
// tapering schedule. Steps that fail to parse contribute 0.
func CalculateTaperedQuantity(steps []Step) int {
	total := 0
	for _, step := range steps {
		perDay := ParseDosesPerDay(step.Frequency)
		if perDay <= 0 || step.DurationDays <= 0 {
			continue
		}
		total += int(math.Ceil(perDay * float64(step.DurationDays)))
	}
	return total
}

// ScheduleNarrative renders a tapering schedule as a human-readable
// instruction line, preserving step order, e.g.
// "10mg Once daily for 5 days, Then 5mg Once daily for 5 days".
func ScheduleNarrative(steps []Step) string {
	if len(steps) == 0 {
		return ""
	}

	parts := make([]string, 0, len(steps))
	for i, step := range steps {
		prefix := ""
		if i > 0 {
			prefix = "Then "
		}
		unit := "days"
		if step.DurationDays == 1 {
			unit = "day"
		}
		parts = append(parts, fmt.Sprintf("%s%s %s for %d %s", prefix, step.Dose, step.Frequency, step.DurationDays, unit))
	}
	return strings.Join(parts, ", ")
}
