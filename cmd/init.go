package cmd

import (
	"fmt"

	"github.com/misterclayt0n/periodize/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		fmt.Println("✅ Database initialized")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
