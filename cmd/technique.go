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
	techniqueName     string
	techniqueDesc     string
	techniqueTemplate bool
)

var addTechniqueCmd = &cobra.Command{
	Use:   "add-technique",
	Short: "Create a special technique (drop set, rest-pause, ...)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		technique := models.SpecialTechnique{
			ID:          uuid.New().String(),
			Name:        techniqueName,
			Description: techniqueDesc,
			IsTemplate:  techniqueTemplate,
			CreatedAt:   time.Now().UTC(),
		}
		if !technique.IsTemplate {
			technique.OwnerID = currentUser()
		}

		if err := st.CreateTechnique(context.Background(), technique); err != nil {
			return fmt.Errorf("failed to create technique: %w", err)
		}

		fmt.Printf("✅ Created technique: %s (%s)\n", technique.Name, technique.ID)
		return nil
	},
}

var importTechniquesCmd = &cobra.Command{
	Use:   "import-techniques [file]",
	Short: "Import special techniques from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var importData models.TechniqueImport
		if err := toml.Unmarshal(data, &importData); err != nil {
			return fmt.Errorf("invalid TOML format: %w", err)
		}

		ctx := context.Background()
		for _, tTOML := range importData.Techniques {
			technique := models.SpecialTechnique{
				ID:          uuid.New().String(),
				Name:        tTOML.Name,
				Description: tTOML.Description,
				IsTemplate:  tTOML.IsTemplate,
				CreatedAt:   time.Now().UTC(),
			}
			if !technique.IsTemplate {
				technique.OwnerID = currentUser()
			}

			if err := st.CreateTechnique(ctx, technique); err != nil {
				return fmt.Errorf("failed to create technique %s: %w", technique.Name, err)
			}
		}

		fmt.Printf("✅ Imported %d techniques\n", len(importData.Techniques))
		return nil
	},
}

var listTechniquesCmd = &cobra.Command{
	Use:   "list-techniques",
	Short: "List available special techniques",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		defer st.Close()

		techniques, err := st.ListTechniques(context.Background(), currentUser())
		if err != nil {
			return err
		}

		for _, t := range techniques {
			label := ""
			if t.IsTemplate {
				label = " [template]"
			}
			fmt.Printf("%s - %s%s\n", t.ID, t.Name, label)
		}
		return nil
	},
}

func init() {
	addTechniqueCmd.Flags().StringVarP(&techniqueName, "name", "n", "", "Technique name")
	addTechniqueCmd.Flags().StringVarP(&techniqueDesc, "description", "d", "", "How to execute it")
	addTechniqueCmd.Flags().BoolVar(&techniqueTemplate, "template", false, "Make it a shared template")
	addTechniqueCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(addTechniqueCmd)
	rootCmd.AddCommand(importTechniquesCmd)
	rootCmd.AddCommand(listTechniquesCmd)
}
