package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "periodize",
	Short: "Periodized training program builder and tracker",
}

func Execute() error {
	return rootCmd.Execute()
}

// currentUser is the owner id for CLI operations. The HTTP server resolves
// owners from API keys instead; locally a single profile is enough.
func currentUser() string {
	if u := os.Getenv("PERIODIZE_USER"); u != "" {
		return u
	}
	return "local"
}
