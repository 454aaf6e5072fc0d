package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/misterclayt0n/periodize/internal/builder"
	"github.com/misterclayt0n/periodize/internal/storage"
	"github.com/misterclayt0n/periodize/internal/utils"
	"github.com/spf13/cobra"
)

var weekFilter int // Optional week filter (absolute week within a mesocycle).

var showProgramCmd = &cobra.Command{
	Use:   "show-program [id]",
	Short: "Display a visualization of an entire program (optionally filter by week)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		ctx := context.Background()
		prog, err := st.LoadProgram(ctx, args[0], currentUser())
		if err != nil {
			return fmt.Errorf("failed to load program: %w", err)
		}

		// Set up color functions.
		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		// Print program header.
		fmt.Printf("\n%s\n", green(strings.ToUpper(prog.Name)))
		fmt.Printf("%s: %s %s, %s level, %d sessions/week\n",
			cyan("Plan"), prog.PeriodizationType, prog.Goal, prog.TrainingLevel, prog.Frequency)
		if prog.Description != "" {
			fmt.Printf("%s: %s\n", cyan("Description"), prog.Description)
		}
		fmt.Printf("%s: %d weeks planned\n", cyan("Length"), utils.ProgramWeeks(prog))
		fmt.Printf("%s: %s\n", cyan("Created At"), prog.CreatedAt.Format(time.RFC1123))
		fmt.Println(strings.Repeat("=", 60))

		for _, meso := range prog.Mesocycles {
			header := fmt.Sprintf("Mesocycle %d: %s (%d weeks, vol %d/10, int %d/10)",
				meso.Position+1, meso.Phase, meso.DurationWeeks, meso.VolumeLevel, meso.IntensityLevel)
			if meso.IncludesDeload {
				header += fmt.Sprintf(" [deload: %s]", meso.DeloadStrategy)
			}
			fmt.Printf("\n%s\n", yellow(header))

			for _, mc := range meso.Microcycles {
				if weekFilter != 0 && mc.WeekNumber != weekFilter {
					continue
				}

				weekLabel := fmt.Sprintf("Week %d (vol x%.2f, int x%.2f)",
					mc.WeekNumber, mc.VolumeMultiplier, mc.IntensityMultiplier)
				if mc.IsDeload {
					weekLabel += " " + red("DELOAD")
				}
				fmt.Printf("  %s - %d working sets\n", weekLabel, utils.WeeklySets(&mc))

				for _, sess := range mc.Sessions {
					day := time.Weekday(sess.DayOfWeek % 7).String()
					fmt.Printf("    %s [%s]", sess.Name, day)
					if len(sess.Focus) > 0 {
						fmt.Printf(" (%s)", strings.Join(sess.Focus, ", "))
					}
					fmt.Println()

					for _, ex := range sess.Exercises {
						line := fmt.Sprintf("      %dx%s", ex.Sets, ex.Reps)
						if ex.RIR != nil {
							line += fmt.Sprintf(" @%.1f RIR", *ex.RIR)
						} else if ex.RPE != nil {
							line += fmt.Sprintf(" @RPE %.1f", *ex.RPE)
						}
						if ex.Tempo != "" {
							line += " tempo " + ex.Tempo
						}

						name := ex.ExerciseID
						if cat, err := st.GetExerciseByID(ctx, ex.ExerciseID); err == nil {
							name = cat.Name
						}
						fmt.Printf("%s %s\n", line, cyan(name))
					}
				}
			}
		}

		for _, warning := range builder.Validate(prog) {
			fmt.Printf("\n⚠️  %s\n", warning)
		}
		return nil
	},
}

func init() {
	showProgramCmd.Flags().IntVarP(&weekFilter, "week", "w", 0, "Only show the given week number")
	rootCmd.AddCommand(showProgramCmd)
}
