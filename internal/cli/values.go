package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"
)

// newValuesCommand creates the "values" subcommand that prints the effective
// values document with every secret masked.
func newValuesCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values",
		Short: "Show the effective values document with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vals, err := loadValues(opts)
			if err != nil {
				return err
			}

			if err := vals.Validate(); err != nil {
				return err
			}

			redacted := vals.Redacted()

			data, err := sigsyaml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("failed to encode values: %w", err)
			}

			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}

			_, err = fmt.Fprintf(out, "---\n# database url: %s\n", redacted.Database.URL())
			return err
		},
	}

	return cmd
}
