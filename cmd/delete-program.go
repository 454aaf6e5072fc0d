package cmd

import (
	"context"
	"fmt"

	"github.com/misterclayt0n/periodize/internal/storage"
	"github.com/spf13/cobra"
)

var deleteProgramCmd = &cobra.Command{
	Use:   "delete-program [id]",
	Short: "Delete a program and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		if err := st.DeleteProgram(context.Background(), args[0], currentUser()); err != nil {
			return fmt.Errorf("failed to delete program: %w", err)
		}

		fmt.Println("✅ Program deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteProgramCmd)
}
