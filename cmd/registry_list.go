package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/orchard/internal/presentation"
	"github.com/zjrosen/orchard/internal/registry"
)

var (
	listCategory string
	listQuery    string
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the widget registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered widgets",
	Long: `List the registered widgets and their channels as JSON.

Use --category to list one category.
Use --query to search names, descriptions and keywords.

Examples:
  # List all widgets
  orchard registry list

  # Filter by category
  orchard registry list --category Math
  orchard registry list -C Math

  # Search
  orchard registry list --query scale

  # Load an extra registration file
  orchard --registry ./widgets.hcl registry list

  # Parse specific fields with jq
  orchard registry list | jq '.[].qualified_name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		var widgets []*registry.WidgetDescription
		switch {
		case cmd.Flags().Changed("query"):
			widgets = reg.Search(cmd.Context(), listQuery)
			if listCategory != "" {
				widgets = filterByCategory(widgets, listCategory)
			}
		case listCategory != "":
			if _, err := reg.Category(listCategory); err != nil {
				return err
			}
			widgets = reg.Widgets(listCategory)
		default:
			for _, c := range reg.Categories() {
				widgets = append(widgets, reg.Widgets(c.Name())...)
			}
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		return formatter.FormatWidgets(presentation.FromWidgets(widgets))
	},
}

func init() {
	registryListCmd.Flags().StringVarP(&listCategory, "category", "C", "", "Only list widgets of this category")
	registryListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search widgets")
	registryCmd.AddCommand(registryListCmd)
	rootCmd.AddCommand(registryCmd)
}

func filterByCategory(ws []*registry.WidgetDescription, category string) []*registry.WidgetDescription {
	result := make([]*registry.WidgetDescription, 0, len(ws))
	for _, w := range ws {
		if w.Category() == category {
			result = append(result, w)
		}
	}
	return result
}
