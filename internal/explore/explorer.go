package explore

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/tsketch/tsketch-cli/internal/logging"
)

// labelColumn is added to every search response by the server, requested or not.
const labelColumn = "label"

const (
	DefaultQuery = "*"
	DefaultLimit = 40
)

// Sketch is the part of the remote sketch the explore command needs.
type Sketch interface {
	Explore(ctx context.Context, queryString string, filter QueryFilter, returnFields []string) (*Table, error)
	GetView(ctx context.Context, name string) (View, error)
}

// View is a saved query string and filter of a sketch.
type View struct {
	ID          int
	Name        string
	QueryString string
	QueryFilter QueryFilter
}

// Settings carries what the surrounding CLI resolved: the active sketch and the
// configured output format.
type Settings struct {
	Sketch       Sketch
	OutputFormat string
}

type Options struct {
	Query        string
	Times        []string
	TimeRanges   []TimeRange
	Labels       []string
	ShowHeaders  bool
	Output       string
	ReturnFields []string
	Order        string
	Limit        int
	View         string
	Describe     bool
}

func DefaultOptions() Options {
	return Options{
		Query:       DefaultQuery,
		ShowHeaders: true,
		Order:       OrderAsc,
		Limit:       DefaultLimit,
	}
}

type Explorer struct {
	settings Settings
	out      io.Writer
}

func New(settings Settings, out io.Writer) *Explorer {
	return &Explorer{settings: settings, out: out}
}

// Resolve returns the effective query string and filter. A named view replaces
// everything built from the options.
func (e *Explorer) Resolve(ctx context.Context, opts Options) (string, QueryFilter, error) {
	if opts.View != "" {
		v, err := e.settings.Sketch.GetView(ctx, opts.View)
		if err != nil {
			return "", QueryFilter{}, err
		}
		logging.Debug(fmt.Sprintf("using saved view %q (id %d)", v.Name, v.ID))
		return v.QueryString, v.QueryFilter, nil
	}
	return opts.Query, BuildFilter(opts), nil
}

// BuildFilter assembles a fresh filter from the options: time ranges first, then
// single timestamps, then labels.
func BuildFilter(opts Options) QueryFilter {
	f := NewQueryFilter(opts.Limit, opts.Order)
	f.AddChips(DatetimeChips(opts.TimeRanges...)...)
	for _, t := range opts.Times {
		f.AddChips(DatetimeChips(InstantRange(t))...)
	}
	f.AddChips(LabelChips(opts.Labels...)...)
	return f
}

func (e *Explorer) Run(ctx context.Context, opts Options) error {
	outputFormat := e.settings.OutputFormat
	if opts.Output != "" {
		outputFormat = opts.Output
	}

	// checked before any request; describe does not render
	var format Format
	if !opts.Describe {
		f, err := ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		format = f
	}

	query, filter, err := e.Resolve(ctx, opts)
	if err != nil {
		return err
	}
	if opts.Describe {
		return DescribeQuery(e.out, query, filter)
	}

	logging.Debug(fmt.Sprintf("explore: query=%q chips=%d fields=%v", query, len(filter.Chips), opts.ReturnFields))
	result, err := Search(ctx, e.settings.Sketch, query, filter, opts.ReturnFields)
	if err != nil {
		return err
	}
	s, err := FormatOutput(result, format, opts.ShowHeaders)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.out, s)
	return err
}

// Search runs the query and strips the server-injected label column unless it
// was asked for. Errors from the sketch are returned as is.
func Search(ctx context.Context, sketch Sketch, query string, filter QueryFilter, returnFields []string) (*Table, error) {
	t, err := sketch.Explore(ctx, query, filter, returnFields)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(returnFields, labelColumn) {
		t = t.Drop(labelColumn)
	}
	return t, nil
}
