package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/reqmatch/pkg/cli/internal/output"
	"github.com/getmockd/reqmatch/pkg/cli/internal/parse"
	"github.com/getmockd/reqmatch/pkg/logging"
	"github.com/getmockd/reqmatch/pkg/router"
)

type matchFlags struct {
	files       []string
	requestFile string
	method      string
	path        string
	url         string
	headers     []string
	params      []string
	cookies     []string
	body        string
	nearMisses  int
}

func newMatchCommand(g *globalFlags) *cobra.Command {
	f := &matchFlags{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Route one request against expectation files",
		Long: `Route a single request against the loaded expectations and print the
expectation it matches. When nothing matches, the closest candidates are
printed with the first field that failed, and the command exits non-zero.

The request comes from a YAML file (-r) or from flags. Flags override
fields read from the file.`,
		Example: `  reqmatch match -f mocks.yaml -r request.yaml

  reqmatch match -f mocks.yaml --method POST --path /orders \
    -H 'Content-Type: application/json' --body '{"sku":"A-1"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := g.logger(cmd, logging.LevelWarn)
			if err != nil {
				return err
			}
			defer closeLog()

			rf := &requestFile{}
			if f.requestFile != "" {
				if rf, err = loadRequestFile(f.requestFile); err != nil {
					return err
				}
			}
			if err := f.apply(cmd, rf); err != nil {
				return err
			}
			req, err := rf.toRequest()
			if err != nil {
				return err
			}

			r, err := loadRouter(f.files, log, router.WithNearMissLimit(f.nearMisses))
			if err != nil {
				return err
			}

			res := r.Match(req)
			out := cmd.OutOrStdout()
			if g.jsonOutput {
				if err := output.JSON(out, res); err != nil {
					return err
				}
			} else {
				printMatch(cmd, res)
			}

			if !res.Matched {
				return errSilent
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.files, "file", "f", nil, "Expectation file or glob (repeatable)")
	fl.StringVarP(&f.requestFile, "request", "r", "", "Request YAML file")
	fl.StringVarP(&f.method, "method", "X", "", "Request method (default GET)")
	fl.StringVar(&f.path, "path", "", "Request path")
	fl.StringVar(&f.url, "url", "", "Absolute request URL")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, `Header "Name: value" (repeatable)`)
	fl.StringArrayVar(&f.params, "param", nil, `Query parameter "name=value" (repeatable)`)
	fl.StringArrayVar(&f.cookies, "cookie", nil, `Cookie "name=value" (repeatable)`)
	fl.StringVarP(&f.body, "body", "d", "", "Request body")
	fl.IntVar(&f.nearMisses, "near-misses", router.DefaultNearMissLimit, "Near misses to report on a miss")
	return cmd
}

// apply overlays the request flags that were set on rf.
func (f *matchFlags) apply(cmd *cobra.Command, rf *requestFile) error {
	changed := cmd.Flags().Changed
	if changed("method") {
		rf.Method = f.method
	}
	if changed("path") {
		rf.Path = f.path
	}
	if changed("url") {
		rf.URL = f.url
	}
	if changed("body") {
		rf.Body = f.body
	}

	headers, err := parse.Multi(f.headers, ':')
	if err != nil {
		return fmt.Errorf("--header: %w", err)
	}
	params, err := parse.Multi(f.params, '=')
	if err != nil {
		return fmt.Errorf("--param: %w", err)
	}
	cookies, err := parse.Single(f.cookies, '=')
	if err != nil {
		return fmt.Errorf("--cookie: %w", err)
	}

	for k, v := range headers {
		if rf.Headers == nil {
			rf.Headers = map[string]stringList{}
		}
		rf.Headers[k] = v
	}
	for k, v := range params {
		if rf.Params == nil {
			rf.Params = map[string]stringList{}
		}
		rf.Params[k] = v
	}
	for k, v := range cookies {
		if rf.Cookies == nil {
			rf.Cookies = map[string]string{}
		}
		rf.Cookies[k] = v
	}
	return nil
}

func printMatch(cmd *cobra.Command, res *router.Result) {
	out := cmd.OutOrStdout()
	if res.Matched {
		if res.Name != "" {
			fmt.Fprintf(out, "matched %s (%s)\n", res.ID, res.Name)
		} else {
			fmt.Fprintf(out, "matched %s\n", res.ID)
		}
		return
	}

	fmt.Fprintln(out, "no match")
	if len(res.NearMisses) == 0 {
		return
	}
	fmt.Fprintln(out, "near misses:")
	tw := output.Table(out)
	for _, nm := range res.NearMisses {
		fmt.Fprintf(tw, "  %d%%\t%s\t%s\n", nm.MatchPercentage, nm.ExpectationID, nm.Reason)
	}
	_ = tw.Flush()
}
