package builder

import (
	"fmt"

	"github.com/misterclayt0n/periodize/internal/models"
)

// Validate reports soft-invariant warnings on a program tree. Partial trees
// are legal during editing, so none of these reject the program; persistence
// accepts whatever the builder produced.
func Validate(p *models.Program) []string {
	var warnings []string

	for _, meso := range p.Mesocycles {
		if len(meso.Microcycles) > 0 && len(meso.Microcycles) != meso.DurationWeeks {
			warnings = append(warnings, fmt.Sprintf(
				"mesocycle at position %d has %d microcycles for %d weeks",
				meso.Position, len(meso.Microcycles), meso.DurationWeeks))
		}

		for _, mc := range meso.Microcycles {
			if n := len(mc.Sessions); n > 0 && n != p.Frequency {
				warnings = append(warnings, fmt.Sprintf(
					"week %d of mesocycle %d has %d sessions, program frequency is %d",
					mc.WeekNumber, meso.Position, n, p.Frequency))
			}
		}

		if meso.IncludesDeload {
			found := false
			for _, mc := range meso.Microcycles {
				if mc.IsDeload {
					found = true
					break
				}
			}
			if !found && len(meso.Microcycles) == meso.DurationWeeks {
				warnings = append(warnings, fmt.Sprintf(
					"mesocycle at position %d includes a deload but no week is flagged as one",
					meso.Position))
			}
		}
	}

	return warnings
}
