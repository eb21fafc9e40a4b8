package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/reqmatch/pkg/cli/internal/output"
	"github.com/getmockd/reqmatch/pkg/logging"
)

type validateResult struct {
	Valid        bool                 `json:"valid"`
	Count        int                  `json:"count"`
	Expectations []expectationSummary `json:"expectations"`
}

func newValidateCommand(g *globalFlags) *cobra.Command {
	var (
		files   []string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and compile expectation files",
		Long: `Load expectation files, validate every definition and compile its request
matchers. Duplicate IDs are reported. Expectations are listed in routing
order: higher priority first, then file order.`,
		Example: `  # Validate one file
  reqmatch validate -f mocks.yaml

  # Validate a directory tree
  reqmatch validate -f 'mocks/**/*.yaml' --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := g.logger(cmd, logging.LevelWarn)
			if err != nil {
				return err
			}
			defer closeLog()

			r, err := loadRouter(files, log)
			if err != nil {
				return err
			}

			exps := r.Expectations()
			res := validateResult{Valid: true, Count: len(exps)}
			for _, e := range exps {
				res.Expectations = append(res.Expectations, summarize(e))
			}

			out := cmd.OutOrStdout()
			if g.jsonOutput {
				return output.JSON(out, res)
			}

			fmt.Fprintf(out, "OK: %d expectation(s)\n", res.Count)
			if verbose {
				tw := output.Table(out)
				fmt.Fprintln(tw, "ID\tNAME\tPRIORITY\tENABLED\tMATCHERS")
				for _, s := range res.Expectations {
					kinds := make([]string, len(s.Kinds))
					for i, k := range s.Kinds {
						kinds[i] = string(k)
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n", s.ID, dash(s.Name), s.Priority, s.Enabled, dash(strings.Join(kinds, ",")))
				}
				return tw.Flush()
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "Expectation file or glob (repeatable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every expectation")
	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
