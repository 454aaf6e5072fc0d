package storage

import (
	"context"

	"github.com/BurntSushi/toml"

	"github.com/misterclayt0n/periodize/internal/builder"
	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

// CreateProgramFromTOML parses a program file, assembles the tree through the
// builder (which enforces every structural invariant) and persists it in one
// save. Exercise names in the file are resolved against the catalog; an
// unknown name aborts the import before anything is written.
func (s *Storage) CreateProgramFromTOML(ctx context.Context, ownerID string, tomlData []byte) (*models.Program, error) {
	var progTOML models.ProgramTOML
	if err := toml.Unmarshal(tomlData, &progTOML); err != nil {
		return nil, errs.Validation("invalid TOML format: %v", err)
	}

	program, err := builder.NewProgram(
		ownerID,
		progTOML.Name,
		models.PeriodizationType(progTOML.PeriodizationType),
		models.TrainingGoal(progTOML.Goal),
		models.TrainingLevel(progTOML.TrainingLevel),
		progTOML.Frequency,
	)
	if err != nil {
		return nil, err
	}
	program.Description = progTOML.Description

	for _, mesoTOML := range progTOML.Mesocycles {
		meso, err := builder.AddMesocycle(
			program,
			models.TrainingPhase(mesoTOML.Phase),
			mesoTOML.DurationWeeks,
			builder.AppendPosition,
			mesoTOML.IncludesDeload,
			models.DeloadStrategy(mesoTOML.DeloadStrategy),
		)
		if err != nil {
			return nil, err
		}
		if mesoTOML.VolumeLevel > 0 {
			meso.VolumeLevel = mesoTOML.VolumeLevel
		}
		if mesoTOML.IntensityLevel > 0 {
			meso.IntensityLevel = mesoTOML.IntensityLevel
		}

		for _, mcTOML := range mesoTOML.Microcycles {
			volMult := mcTOML.VolumeMultiplier
			if volMult == 0 {
				volMult = 1.0
			}
			intMult := mcTOML.IntensityMultiplier
			if intMult == 0 {
				intMult = 1.0
			}

			mc, err := builder.AddMicrocycle(meso, mcTOML.WeekNumber, volMult, intMult, mcTOML.IsDeload)
			if err != nil {
				return nil, err
			}

			for _, sessTOML := range mcTOML.Sessions {
				sess, err := builder.AddSession(mc, sessTOML.Name, sessTOML.DayOfWeek, sessTOML.Focus)
				if err != nil {
					return nil, err
				}
				sess.RPETarget = sessTOML.RPETarget
				sess.RIRTarget = sessTOML.RIRTarget

				for _, exTOML := range sessTOML.Exercises {
					exerciseID, err := s.ExerciseIDByName(ctx, exTOML.Name)
					if err != nil {
						return nil, err
					}

					rx := builder.Prescription{
						Sets:            exTOML.Sets,
						Reps:            exTOML.Reps,
						RIR:             exTOML.RIR,
						RPE:             exTOML.RPE,
						RestSeconds:     exTOML.RestSeconds,
						Tempo:           exTOML.Tempo,
						SupersetGroupID: exTOML.SupersetGroup,
						Notes:           exTOML.Notes,
					}

					if exTOML.SpecialTechnique != "" {
						techniqueID, err := s.TechniqueIDByName(ctx, exTOML.SpecialTechnique)
						if err != nil {
							return nil, err
						}
						rx.SpecialTechniqueID = techniqueID
					}

					if _, err := builder.AddExercise(ctx, sess, exerciseID, rx, s); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	if err := s.SaveProgram(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}
