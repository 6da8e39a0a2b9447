package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the question catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import questions from a YAML catalog into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		questions, err := catalog.ParseYAML(data)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.QuestionRepo().Import(cmd.Context(), questions); err != nil {
			return fmt.Errorf("import catalog: %w", err)
		}
		fmt.Printf("Imported %d questions.\n", len(questions))
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions in the active catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryFlag, _ := cmd.Flags().GetString("category")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		questions, err := a.Catalog.FindAny(cmd.Context(), nil)
		if err != nil {
			return err
		}

		var category taxonomy.Category
		if categoryFlag != "" {
			if category, err = taxonomy.ParseCategory(categoryFlag); err != nil {
				return err
			}
		}

		fmt.Printf("Source: %s\n\n", a.CatalogSource())
		fmt.Printf("%-24s  %-20s  %-12s  %s\n", "ID", "Category", "Difficulty", "Prompt")
		fmt.Println(strings.Repeat("─", 100))
		n := 0
		for _, q := range questions {
			if category != "" && q.Category != category {
				continue
			}
			fmt.Printf("%-24s  %-20s  %-12s  %s\n",
				truncate(q.ID, 24), q.Category.DisplayName(), q.Difficulty, truncate(q.Prompt, 60))
			n++
		}
		fmt.Printf("\n%d questions\n", n)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built-in question bank as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := catalog.MarshalYAML(catalog.Builtin().All())
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	catalogListCmd.Flags().String("category", "", "Filter by category")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}
