package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/misterclayt0n/periodize/internal/models"
	"github.com/misterclayt0n/periodize/internal/storage"
	"github.com/spf13/cobra"
)

var (
	objectiveName     string
	objectiveCategory string
	objectiveTarget   float64
	objectiveDeadline string

	assocEntityType string
	assocEntityID   string
	assocPriority   string
)

var addObjectiveCmd = &cobra.Command{
	Use:   "add-objective",
	Short: "Create a training objective",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		var deadline *time.Time
		if objectiveDeadline != "" {
			t, err := time.Parse("2006-01-02", objectiveDeadline)
			if err != nil {
				return fmt.Errorf("invalid deadline, use YYYY-MM-DD: %w", err)
			}
			deadline = &t
		}

		obj, err := st.CreateObjective(
			context.Background(), currentUser(), objectiveName,
			models.ObjectiveCategory(objectiveCategory), objectiveTarget, deadline,
		)
		if err != nil {
			return fmt.Errorf("failed to create objective: %w", err)
		}

		fmt.Printf("✅ Created objective '%s' (%s)\n", obj.Name, obj.ID)
		return nil
	},
}

var listObjectivesCmd = &cobra.Command{
	Use:   "list-objectives",
	Short: "List your training objectives",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		objectives, err := st.ListObjectives(context.Background(), currentUser())
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		for _, obj := range objectives {
			status := string(obj.Status)
			switch obj.Status {
			case models.ObjectiveAchieved:
				status = green(status)
			case models.ObjectiveAbandoned:
				status = red(status)
			}

			line := fmt.Sprintf("%s - %s [%s] %.1f/%.1f (%s)",
				obj.ID, obj.Name, obj.Category, obj.CurrentValue, obj.TargetValue, status)
			if obj.Deadline != nil {
				line += " due " + obj.Deadline.Format("2006-01-02")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var associateObjectiveCmd = &cobra.Command{
	Use:   "associate-objective [objective-id]",
	Short: "Attach an objective to a program, mesocycle, microcycle or session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		assoc, err := st.Associate(
			context.Background(), args[0], currentUser(),
			models.EntityType(assocEntityType), assocEntityID,
			models.ObjectivePriority(assocPriority),
		)
		if err != nil {
			return fmt.Errorf("failed to associate objective: %w", err)
		}

		fmt.Printf("✅ Objective linked to %s %s as %s\n", assoc.EntityType, assoc.EntityID, assoc.Priority)
		return nil
	},
}

var logProgressCmd = &cobra.Command{
	Use:   "log-progress [objective-id] [value]",
	Short: "Record progress towards an objective",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		var value float64
		if _, err := fmt.Sscanf(args[1], "%f", &value); err != nil {
			return fmt.Errorf("invalid progress value %q: %w", args[1], err)
		}

		obj, err := st.UpdateProgress(context.Background(), args[0], currentUser(), value)
		if err != nil {
			return fmt.Errorf("failed to log progress: %w", err)
		}

		if obj.IsAchieved() {
			fmt.Printf("🎉 Objective '%s' achieved! (%.1f/%.1f)\n", obj.Name, obj.CurrentValue, obj.TargetValue)
		} else {
			fmt.Printf("✅ Progress logged: %.1f/%.1f\n", obj.CurrentValue, obj.TargetValue)
		}
		return nil
	},
}

var abandonObjectiveCmd = &cobra.Command{
	Use:   "abandon-objective [objective-id]",
	Short: "Abandon an active objective",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		if err := st.AbandonObjective(context.Background(), args[0], currentUser()); err != nil {
			return fmt.Errorf("failed to abandon objective: %w", err)
		}

		fmt.Println("✅ Objective abandoned")
		return nil
	},
}

func init() {
	addObjectiveCmd.Flags().StringVarP(&objectiveName, "name", "n", "", "Objective name")
	addObjectiveCmd.Flags().StringVarP(&objectiveCategory, "category", "c", "", "strength, hypertrophy, endurance, power or skill")
	addObjectiveCmd.Flags().Float64VarP(&objectiveTarget, "target", "t", 0, "Target value")
	addObjectiveCmd.Flags().StringVar(&objectiveDeadline, "deadline", "", "Optional deadline (YYYY-MM-DD)")
	addObjectiveCmd.MarkFlagRequired("name")
	addObjectiveCmd.MarkFlagRequired("category")
	addObjectiveCmd.MarkFlagRequired("target")

	associateObjectiveCmd.Flags().StringVar(&assocEntityType, "entity-type", "", "program, mesocycle, microcycle or session")
	associateObjectiveCmd.Flags().StringVar(&assocEntityID, "entity-id", "", "Id of the hierarchy node")
	associateObjectiveCmd.Flags().StringVar(&assocPriority, "priority", "primary", "primary, secondary or tertiary")
	associateObjectiveCmd.MarkFlagRequired("entity-type")
	associateObjectiveCmd.MarkFlagRequired("entity-id")

	rootCmd.AddCommand(addObjectiveCmd)
	rootCmd.AddCommand(listObjectivesCmd)
	rootCmd.AddCommand(associateObjectiveCmd)
	rootCmd.AddCommand(logProgressCmd)
	rootCmd.AddCommand(abandonObjectiveCmd)
}
