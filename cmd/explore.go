package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tsketch/tsketch-cli/internal/config"
	"github.com/tsketch/tsketch-cli/internal/explore"
	"github.com/tsketch/tsketch-cli/internal/timesketch"
	"github.com/tsketch/tsketch-cli/internal/ui/console"
)

var errNoSketch = errors.New("no sketch selected: pass --sketch or set sketch in the config")

type remoteSketch interface {
	explore.Sketch
	console.ViewLister
	SketchID() int
}

// newSketch is replaced in tests.
var newSketch = func(cfg config.Config) (remoteSketch, error) {
	if cfg.Sketch <= 0 {
		return nil, errNoSketch
	}
	opts := []timesketch.Option{timesketch.WithTLSVerify(cfg.TLSVerify())}
	if cfg.Timeout > 0 {
		opts = append(opts, timesketch.WithTimeout(time.Duration(cfg.Timeout)*time.Second))
	}
	return timesketch.NewClient(cfg.Host, cfg.Token, cfg.Sketch, opts...), nil
}

func newExploreCmd() *cobra.Command {
	opts := explore.DefaultOptions()
	var (
		timeRanges   []string
		returnFields string
		noHeader     bool
		selectView   bool
	)
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Search the sketch and print matching events",
		Example: `  tsketch explore -q 'data_type:"syslog:line"' --time-range 2020-01-01 2020-01-02
  tsketch explore --label star --return-fields datetime,message --output csv
  tsketch explore --view my_view --describe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Order != explore.OrderAsc && opts.Order != explore.OrderDesc {
				return fmt.Errorf("invalid --order %q: must be asc or desc", opts.Order)
			}
			for _, r := range timeRanges {
				if !strings.Contains(r, ",") {
					return fmt.Errorf("--time-range needs START END, got %q", r)
				}
				opts.TimeRanges = append(opts.TimeRanges, explore.ParseTimeRange(r))
			}
			opts.ReturnFields = splitFields(returnFields)
			if noHeader {
				opts.ShowHeaders = false
			}

			cfg := config.Get()
			var sketch remoteSketch
			if !opts.Describe || opts.View != "" || selectView {
				var err error
				if sketch, err = newSketch(cfg); err != nil {
					return err
				}
			}
			if selectView {
				name, err := console.NewConsoleUI(sketch).SelectView(cmd.Context())
				if err != nil {
					return err
				}
				opts.View = name
			}

			e := explore.New(explore.Settings{Sketch: sketch, OutputFormat: cfg.OutputFormat}, cmd.OutOrStdout())
			return e.Run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Query, "query", "q", explore.DefaultQuery, "query string")
	f.StringArrayVar(&opts.Times, "time", nil, "timestamp to match exactly (repeatable)")
	f.StringArrayVar(&timeRanges, "time-range", nil, "time range as START END or START,END (repeatable)")
	f.StringArrayVar(&opts.Labels, "label", nil, "label to filter on, e.g. star or comment (repeatable)")
	f.BoolVar(&opts.ShowHeaders, "header", true, "print the header row")
	f.BoolVar(&noHeader, "no-header", false, "do not print the header row")
	f.StringVar(&opts.Output, "output", "", "output format for this run: text, csv or tabular")
	f.StringVar(&returnFields, "return-fields", "", "comma separated fields to return")
	f.StringVar(&opts.Order, "order", explore.OrderAsc, "sort order: asc or desc")
	f.IntVar(&opts.Limit, "limit", explore.DefaultLimit, "maximum number of events")
	f.StringVar(&opts.View, "view", "", "run a saved view; filter flags are ignored")
	f.BoolVar(&selectView, "select-view", false, "pick a saved view interactively")
	f.BoolVar(&opts.Describe, "describe", false, "print the query and filter without searching")
	cmd.MarkFlagsMutuallyExclusive("view", "select-view")
	return cmd
}

func splitFields(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
