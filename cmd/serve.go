package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/misterclayt0n/periodize/internal/api"
	"github.com/misterclayt0n/periodize/internal/config"
	"github.com/misterclayt0n/periodize/internal/logger"
	"github.com/misterclayt0n/periodize/internal/storage"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if keys := os.Getenv("PERIODIZE_API_KEYS"); keys != "" {
			cfg.Server.APIKeys = keys
		}

		log := logger.Setup(&cfg.Server)

		st, err := storage.Open(cfg.DB.Driver, cfg.DB.ConnectionString)
		if err != nil {
			return err
		}
		defer st.Close()

		handlers := api.NewHandlers(st, log)
		router := api.SetupRoutes(handlers, cfg.Server.APIKeys, log)

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info("starting periodize API", slog.String("addr", addr))

		return http.ListenAndServe(addr, router)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
