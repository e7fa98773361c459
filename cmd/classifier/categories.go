package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/image-classifier/internal/categories"
)

var categoriesCommand = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cat"},
	Short:   "Manage the classification categories",
	Long:    "Categories are addressed by id or by any unique id prefix, as shown by 'categories list'.",
}

var categoriesListCommand = &cobra.Command{
	Use:   "list",
	Short: "List the categories and their statistics",
	RunE:  runCategoriesList,
}

var categoriesCreateCommand = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE:  runCategoriesCreate,
}

var categoriesDuplicateCommand = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesDuplicate,
}

var categoriesToggleCommand = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Switch a category between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesToggle,
}

var categoriesDeleteCommand = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesDelete,
}

var categoriesImportCommand = &cobra.Command{
	Use:   "import <file>",
	Short: "Import categories from a JSON or YAML export",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesImport,
}

var categoriesExportCommand = &cobra.Command{
	Use:   "export [id]...",
	Short: "Export the given categories, or all of them",
	RunE:  runCategoriesExport,
}

var (
	catSearch string
	catType   string
	catStatus string
	catSort   string
	catYes    bool
	catFormat string
)

var catForm = categories.NewForm()

func init() {
	categoriesListCommand.Flags().StringVarP(&catSearch, "search", "s", "", "Match name or description")
	categoriesListCommand.Flags().StringVar(&catType, "type", "", "animals, clothing, food, vehicles or custom")
	categoriesListCommand.Flags().StringVar(&catStatus, "status", "", "active, inactive or training")
	categoriesListCommand.Flags().StringVar(&catSort, "sort", categories.SortName, "name, accuracy, classifications or updated")

	f := categoriesCreateCommand.Flags()
	f.StringVar(&catForm.Name, "name", "", "Name (at least 3 characters)")
	f.StringVar(&catForm.Description, "description", "", "Description")
	f.StringVar(&catForm.Type, "type", catForm.Type, "animals, clothing, food, vehicles or custom")
	f.StringVar(&catForm.Status, "status", catForm.Status, "active, inactive or training")
	f.IntVar(&catForm.ConfidenceThreshold, "threshold", catForm.ConfidenceThreshold, "Confidence threshold, 50 to 95")
	f.StringSlice("sample", nil, "Sample image URL (repeatable, at least 3)")

	categoriesDeleteCommand.Flags().BoolVarP(&catYes, "yes", "y", false, "Do not ask for confirmation")
	categoriesExportCommand.Flags().StringVarP(&catFormat, "format", "f", "", "json, csv or yaml (default from preferences)")

	categoriesCommand.AddCommand(categoriesListCommand, categoriesCreateCommand, categoriesDuplicateCommand,
		categoriesToggleCommand, categoriesDeleteCommand, categoriesImportCommand, categoriesExportCommand)
	rootCmd.AddCommand(categoriesCommand)
}

func openCategories(cmd *cobra.Command) (*app, *categories.Manager, error) {
	a, err := openApp(cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	m, err := a.categories()
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, m, nil
}

// resolveCategory finds the category whose id starts with prefix.
func resolveCategory(m *categories.Manager, prefix string) (categories.Category, error) {
	var found []categories.Category
	for _, c := range m.Categories() {
		if c.ID == prefix {
			return c, nil
		}
		if strings.HasPrefix(c.ID, prefix) {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return categories.Category{}, fmt.Errorf("%w: %s", categories.ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return categories.Category{}, fmt.Errorf("id prefix %q matches %d categories", prefix, len(found))
	}
}

func runCategoriesList(cmd *cobra.Command, _ []string) error {
	a, m, err := openCategories(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for key, value := range map[string]string{
		categories.FilterSearch: catSearch,
		categories.FilterType:   catType,
		categories.FilterStatus: catStatus,
	} {
		if value == "" {
			continue
		}
		if err := m.SetFilter(key, value); err != nil {
			return err
		}
	}
	if err := m.SetSort(catSort); err != nil {
		return err
	}
	a.printer.PrintCategories(m.Page())
	a.printer.PrintCategoryStats(m.Stats())
	return nil
}

func runCategoriesCreate(cmd *cobra.Command, _ []string) error {
	a, m, err := openCategories(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	form := catForm
	form.SampleImages = nil
	urls, _ := cmd.Flags().GetStringSlice("sample")
	for i, u := range urls {
		form.SampleImages = append(form.SampleImages, categories.SampleImage{ID: i + 1, URL: u})
	}
	c, err := m.Create(form)
	if err != nil {
		return err
	}
	if err := a.saveCategories(m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", c.Name, c.ID)
	return nil
}

// mutateCategory applies change to the category named by args[0] and saves.
func mutateCategory(cmd *cobra.Command, args []string, verb string, change func(*categories.Manager, string) (categories.Category, error)) error {
	a, m, err := openCategories(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	target, err := resolveCategory(m, args[0])
	if err != nil {
		return err
	}
	c, err := change(m, target.ID)
	if err != nil {
		return err
	}
	if err := a.saveCategories(m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s)\n", verb, c.Name, c.ID, categories.StatusLabel(c.Status))
	return nil
}

func runCategoriesDuplicate(cmd *cobra.Command, args []string) error {
	return mutateCategory(cmd, args, "Created", (*categories.Manager).Duplicate)
}

func runCategoriesToggle(cmd *cobra.Command, args []string) error {
	return mutateCategory(cmd, args, "Updated", (*categories.Manager).ToggleStatus)
}

func runCategoriesDelete(cmd *cobra.Command, args []string) error {
	a, m, err := openCategories(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	target, err := resolveCategory(m, args[0])
	if err != nil {
		return err
	}
	removed, err := m.Delete(target.ID, a.confirmer(catYes))
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted")
		return nil
	}
	if err := a.saveCategories(m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", target.Name)
	return nil
}

func runCategoriesImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	a, m, err := openCategories(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var added []categories.Category
	switch strings.ToLower(filepath.Ext(args[0])) {
	case ".yaml", ".yml":
		added, err = m.ImportYAML(data)
	default:
		added, err = m.Import(data)
	}
	if err != nil {
		return err
	}
	if err := a.saveCategories(m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories\n", len(added))
	return nil
}

func runCategoriesExport(cmd *cobra.Command, args []string) error {
	a, m, err := openCategories(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, prefix := range args {
		c, err := resolveCategory(m, prefix)
		if err != nil {
			return err
		}
		if _, err := m.Toggle(c.ID); err != nil {
			return err
		}
	}
	format := catFormat
	if format == "" {
		format = a.prefs.ExportFormat
	}
	name, err := m.Export(format)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s/%s\n", a.sink.Dir(), name)
	return nil
}
