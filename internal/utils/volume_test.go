package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/periodize/internal/models"
)

func TestParseRepRange(t *testing.T) {
	min, max, err := ParseRepRange("8-12")
	require.NoError(t, err)
	assert.Equal(t, 8, min)
	assert.Equal(t, 12, max)

	min, max, err = ParseRepRange("10")
	require.NoError(t, err)
	assert.Equal(t, 10, min)
	assert.Equal(t, 10, max)

	min, max, err = ParseRepRange(" 6 - 8 ")
	require.NoError(t, err)
	assert.Equal(t, 6, min)
	assert.Equal(t, 8, max)

	_, _, err = ParseRepRange("")
	assert.Error(t, err)
	_, _, err = ParseRepRange("12-8")
	assert.Error(t, err)
	_, _, err = ParseRepRange("amrap")
	assert.Error(t, err)
}

func TestWeeklySets(t *testing.T) {
	mc := models.Microcycle{
		VolumeMultiplier: 0.5,
		Sessions: []models.PeriodizedSession{
			{Exercises: []models.PeriodizedExercise{{Sets: 4}, {Sets: 3}}},
			{Exercises: []models.PeriodizedExercise{{Sets: 5}}},
		},
	}

	// 12 prescribed sets halved by the deload multiplier.
	assert.Equal(t, 6, WeeklySets(&mc))

	mc.VolumeMultiplier = 1.0
	assert.Equal(t, 12, WeeklySets(&mc))
}

func TestProgramWeeks(t *testing.T) {
	p := models.Program{
		Mesocycles: []models.Mesocycle{
			{DurationWeeks: 4},
			{DurationWeeks: 3},
			{DurationWeeks: 1},
		},
	}
	assert.Equal(t, 8, ProgramWeeks(&p))
	assert.Equal(t, 0, ProgramWeeks(&models.Program{}))
}
