package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/misterclayt0n/periodize/internal/models"
	"github.com/misterclayt0n/periodize/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exerciseName       string
	exerciseDesc       string
	exerciseMuscle     string
	exerciseGroups     []string
	exerciseEquipment  string
	exerciseDifficulty string
)

var addExerciseCmd = &cobra.Command{
	Use:   "add-exercise",
	Short: "Add an exercise to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		exercise := models.Exercise{
			ID:            uuid.New().String(),
			Name:          exerciseName,
			Description:   exerciseDesc,
			PrimaryMuscle: exerciseMuscle,
			MuscleGroups:  exerciseGroups,
			Equipment:     exerciseEquipment,
			Difficulty:    exerciseDifficulty,
			CreatedAt:     time.Now().UTC(),
		}

		if err := st.CreateExercise(context.Background(), exercise); err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}

		fmt.Printf("✅ Created exercise: %s\n", exercise.Name)
		return nil
	},
}

var importExercisesCmd = &cobra.Command{
	Use:   "import-exercises [file]",
	Short: "Import catalog exercises from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var importData models.ExerciseImport
		if err := toml.Unmarshal(data, &importData); err != nil {
			return fmt.Errorf("invalid TOML format: %w", err)
		}

		ctx := context.Background()
		for _, exTOML := range importData.Exercises {
			ex := models.Exercise{
				ID:            uuid.New().String(),
				Name:          exTOML.Name,
				Description:   exTOML.Description,
				PrimaryMuscle: exTOML.PrimaryMuscle,
				MuscleGroups:  exTOML.MuscleGroups,
				Equipment:     exTOML.Equipment,
				Difficulty:    exTOML.Difficulty,
				CreatedAt:     time.Now().UTC(),
			}

			if err := st.CreateExercise(ctx, ex); err != nil {
				return fmt.Errorf("failed to create exercise %s: %w", ex.Name, err)
			}
		}

		fmt.Printf("✅ Imported %d exercises\n", len(importData.Exercises))
		return nil
	},
}

var listExercisesCmd = &cobra.Command{
	Use:   "list-exercises",
	Short: "List the exercise catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		exercises, err := st.ListExercises(context.Background())
		if err != nil {
			return err
		}

		for _, ex := range exercises {
			fmt.Printf("%s - %s (%s)\n", ex.ID, ex.Name, ex.PrimaryMuscle)
		}
		return nil
	},
}

func init() {
	addExerciseCmd.Flags().StringVarP(&exerciseName, "name", "n", "", "Exercise name")
	addExerciseCmd.Flags().StringVarP(&exerciseDesc, "description", "d", "", "Exercise description")
	addExerciseCmd.Flags().StringVarP(&exerciseMuscle, "muscle", "m", "", "Primary muscle group")
	addExerciseCmd.Flags().StringSliceVar(&exerciseGroups, "groups", nil, "All trained muscle groups")
	addExerciseCmd.Flags().StringVar(&exerciseEquipment, "equipment", "", "Required equipment")
	addExerciseCmd.Flags().StringVar(&exerciseDifficulty, "difficulty", "", "Difficulty rating")

	addExerciseCmd.MarkFlagRequired("name")
	addExerciseCmd.MarkFlagRequired("muscle")

	rootCmd.AddCommand(addExerciseCmd)
	rootCmd.AddCommand(importExercisesCmd)
	rootCmd.AddCommand(listExercisesCmd)
}
