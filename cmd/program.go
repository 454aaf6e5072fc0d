package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/misterclayt0n/periodize/internal/builder"
	"github.com/misterclayt0n/periodize/internal/storage"
	"github.com/spf13/cobra"
)

var createProgramCmd = &cobra.Command{
	Use:   "create-program [file]",
	Short: "Create a new periodized program from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		file, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		program, err := st.CreateProgramFromTOML(context.Background(), currentUser(), file)
		if err != nil {
			return fmt.Errorf("failed to create program: %w", err)
		}

		fmt.Printf("✅ Program '%s' created (%s)\n", program.Name, program.ID)

		for _, warning := range builder.Validate(program) {
			fmt.Printf("⚠️  %s\n", warning)
		}
		return nil
	},
}

var listProgramsCmd = &cobra.Command{
	Use:   "list-programs",
	Short: "List all programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		programs, err := st.ListPrograms(context.Background(), currentUser())
		if err != nil {
			return err
		}

		for _, p := range programs {
			fmt.Printf("%s - %s (%s, %s, %dx/week)\n",
				p.ID, p.Name, p.PeriodizationType, p.Goal, p.Frequency)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createProgramCmd)
	rootCmd.AddCommand(listProgramsCmd)
}
