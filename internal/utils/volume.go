package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/misterclayt0n/periodize/internal/models"
)

// ParseRepRange splits a reps prescription like "8-12" (or a plain "10") into
// its bounds.
func ParseRepRange(reps string) (int, int, error) {
	reps = strings.TrimSpace(reps)
	if reps == "" {
		return 0, 0, fmt.Errorf("empty reps string")
	}

	if lo, hi, found := strings.Cut(reps, "-"); found {
		min, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid rep range %q: %w", reps, err)
		}
		max, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid rep range %q: %w", reps, err)
		}
		if min > max {
			return 0, 0, fmt.Errorf("rep range %q is inverted", reps)
		}
		return min, max, nil
	}

	n, err := strconv.Atoi(reps)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reps %q: %w", reps, err)
	}
	return n, n, nil
}

// SessionSets is the raw set count prescribed in one session.
func SessionSets(sess *models.PeriodizedSession) int {
	total := 0
	for _, ex := range sess.Exercises {
		total += ex.Sets
	}
	return total
}

// WeeklySets applies the microcycle's volume multiplier to its prescribed
// sets, rounding to the nearest whole set.
func WeeklySets(mc *models.Microcycle) int {
	total := 0
	for i := range mc.Sessions {
		total += SessionSets(&mc.Sessions[i])
	}
	return int(math.Round(float64(total) * float64(mc.VolumeMultiplier)))
}

// ProgramWeeks counts planned weeks across all mesocycles, whether or not the
// microcycles are populated yet.
func ProgramWeeks(p *models.Program) int {
	weeks := 0
	for _, meso := range p.Mesocycles {
		weeks += meso.DurationWeeks
	}
	return weeks
}
