package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/orchard/internal/presentation"
	"github.com/zjrosen/orchard/internal/readwrite"
	"github.com/zjrosen/orchard/internal/scheme"
)

// errInvalidDocument makes validate exit non-zero after printing its report.
var errInvalidDocument = errors.New("document has errors")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a scheme document loads cleanly",
	Long: `Read a scheme document against the widget registry and report its
contents as JSON. Unknown widgets and links that are no longer legal are
listed as warnings and make the command fail.

Examples:
  orchard validate flow.orchard.yaml
  orchard validate flow.orchard.yaml | jq '.warnings'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		path := args[0]
		f, err := os.Open(path) //nolint:gosec // G304: the document path comes from the user
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		var warnings []error
		s, err := readwrite.Read(f, reg,
			readwrite.WithErrorHandler(func(e error) { warnings = append(warnings, e) }),
			readwrite.WithSchemeOptions(scheme.WithLoopPolicy(loopPolicy(cfg.Editor.LoopPolicy))),
		)
		if err != nil {
			warnings = append(warnings, err)
		}

		report := presentation.FromScheme(path, s, warnings)
		if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatValidation(report); err != nil {
			return err
		}
		if !report.Valid {
			return fmt.Errorf("%s: %w", path, errInvalidDocument)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
