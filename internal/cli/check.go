package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depwatch/pkg/observability"
	"github.com/matzehuels/depwatch/pkg/resolver"
)

// checkCommand creates the check command that resolves one repository.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		jsonOut bool
		plain   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "check <repository-url>",
		Short: "Print the outdated dependencies of a repository",
		Long: `Resolve a GitHub or GitLab repository and print the dependencies whose
latest published version falls outside the declared version range.

Examples:
  depwatch check https://github.com/expressjs/express
  depwatch check https://github.com/laravel/laravel --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			respCache, err := newCache(ctx, cfg.Cache, noCache)
			if err != nil {
				return err
			}
			defer respCache.Close()

			res := c.newResolver(cfg, respCache)

			var report *resolver.Report
			if jsonOut || plain || !isatty.IsTerminal(os.Stderr.Fd()) {
				report, err = resolveWithSpinner(ctx, res, args[0], !jsonOut && !plain)
			} else {
				report, err = resolveWithTUI(ctx, res, args[0])
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeReportJSON(cmd.OutOrStdout(), report)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable the interactive progress view")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

// resolveWithSpinner resolves rawURL, optionally showing a spinner on stderr.
func resolveWithSpinner(ctx context.Context, res *resolver.Resolver, rawURL string, spin bool) (*resolver.Report, error) {
	prog := newProgress(loggerFromContext(ctx))

	var s *Spinner
	if spin {
		msg := "Resolving " + rawURL
		s = newSpinnerWithContext(ctx, msg)
		observability.SetResolveHooks(&spinnerHooks{s: s, prefix: msg})
		defer observability.SetResolveHooks(observability.NoopResolveHooks{})
		s.Start()
	}
	report, err := res.ResolveReport(ctx, rawURL)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Checked %d dependencies", report.Checked))
	return report, nil
}

func writeReportJSON(w io.Writer, report *resolver.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
