package explore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exploreCall struct {
	query  string
	filter QueryFilter
	fields []string
}

type fakeSketch struct {
	calls     []exploreCall
	viewCalls int
	views     map[string]View
	result    func() *Table
	err       error
	viewErr   error
}

func (s *fakeSketch) Explore(_ context.Context, q string, f QueryFilter, fields []string) (*Table, error) {
	s.calls = append(s.calls, exploreCall{query: q, filter: f, fields: fields})
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result(), nil
	}
	t := NewTable("datetime", "message", "label")
	t.Append("2020-01-01T00:00:00", "hello", "__ts_star")
	t.Append("2020-01-02T00:00:00", "world", "")
	return t, nil
}

func (s *fakeSketch) GetView(_ context.Context, name string) (View, error) {
	s.viewCalls++
	if s.viewErr != nil {
		return View{}, s.viewErr
	}
	v, ok := s.views[name]
	if !ok {
		return View{}, errors.New("view not found: " + name)
	}
	return v, nil
}

func run(t *testing.T, sk *fakeSketch, format string, mutate func(*Options)) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	err := New(Settings{Sketch: sk, OutputFormat: format}, &buf).Run(context.Background(), opts)
	return buf.String(), err
}

func TestRun_DescribeLabelStar(t *testing.T) {
	sk := &fakeSketch{}
	out, err := run(t, sk, "tabular", func(o *Options) {
		o.Labels = []string{"star"}
		o.Describe = true
	})
	require.NoError(t, err)
	assert.Empty(t, sk.calls, "describe must not search")
	want := `Query string: *
Filter: {
  "from": 0,
  "terminate_after": 40,
  "size": 40,
  "indices": [
    "_all"
  ],
  "order": "asc",
  "chips": [
    {
      "field": "",
      "value": "__ts_star",
      "type": "label",
      "operator": "must"
    }
  ]
}
`
	assert.Equal(t, want, out)
}

func TestRun_DescribeSkipsFormatCheck(t *testing.T) {
	sk := &fakeSketch{}
	_, err := run(t, sk, "bogus", func(o *Options) { o.Describe = true })
	assert.NoError(t, err)
}

func TestBuildFilter_ChipOrder(t *testing.T) {
	f := BuildFilter(Options{
		Limit:      10,
		Order:      OrderDesc,
		Times:      []string{"2020-03-01"},
		TimeRanges: []TimeRange{{Start: "2020-01-01", End: "2020-02-01"}},
		Labels:     []string{"comment", "evil"},
	})
	assert.Equal(t, 10, f.Size)
	assert.Equal(t, 10, f.TerminateAfter)
	assert.Equal(t, OrderDesc, f.Order)
	require.Len(t, f.Chips, 4)
	assert.Equal(t, "2020-01-01,2020-02-01", f.Chips[0].Value)
	assert.Equal(t, "2020-03-01,2020-03-01", f.Chips[1].Value)
	assert.Equal(t, "__ts_comment", f.Chips[2].Value)
	assert.Equal(t, "evil", f.Chips[3].Value)
}

func TestRun_SearchDropsLabelColumn(t *testing.T) {
	sk := &fakeSketch{}
	out, err := run(t, sk, "csv", func(o *Options) {
		o.ReturnFields = []string{"datetime", "message"}
	})
	require.NoError(t, err)
	require.Len(t, sk.calls, 1)
	assert.Equal(t, "*", sk.calls[0].query)
	assert.Equal(t, []string{"datetime", "message"}, sk.calls[0].fields)
	assert.Equal(t, "datetime,message\n2020-01-01T00:00:00,hello\n2020-01-02T00:00:00,world\n", out)
	assert.NotContains(t, out, "label")
}

func TestSearch_KeepsRequestedLabel(t *testing.T) {
	sk := &fakeSketch{}
	tbl, err := Search(context.Background(), sk, "*", NewQueryFilter(40, OrderAsc), []string{"message", "label"})
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("label"))

	tbl, err = Search(context.Background(), sk, "*", NewQueryFilter(40, OrderAsc), nil)
	require.NoError(t, err)
	assert.False(t, tbl.HasColumn("label"))
}

func TestRun_OutputOverridesSetting(t *testing.T) {
	sk := &fakeSketch{}
	out, err := run(t, sk, "tabular", func(o *Options) {
		o.Output = "csv"
		o.ShowHeaders = false
	})
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01T00:00:00,hello\n2020-01-02T00:00:00,world\n", out)
}

func TestRun_UnknownFormatFailsBeforeSearch(t *testing.T) {
	sk := &fakeSketch{}
	out, err := run(t, sk, "tabular", func(o *Options) { o.Output = "json" })
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Empty(t, out)
	assert.Empty(t, sk.calls)
}

func TestRun_UnknownFormatFailsBeforeViewLookup(t *testing.T) {
	sk := &fakeSketch{views: map[string]View{"my_view": {Name: "my_view"}}}
	_, err := run(t, sk, "tabular", func(o *Options) {
		o.View = "my_view"
		o.Output = "json"
	})
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Zero(t, sk.viewCalls)
	assert.Empty(t, sk.calls)
}

func TestRun_ViewDescribePrintsStoredFilter(t *testing.T) {
	stored := `{"chips":[{"value":"R&D <x>","type":"label","extra":1}],"size":"40","fields":[],"time_start":null}`
	var f QueryFilter
	require.NoError(t, json.Unmarshal([]byte(stored), &f))
	sk := &fakeSketch{views: map[string]View{"my_view": {Name: "my_view", QueryString: "foo", QueryFilter: f}}}

	out, err := run(t, sk, "text", func(o *Options) {
		o.View = "my_view"
		o.Describe = true
	})
	require.NoError(t, err)
	want := `Query string: foo
Filter: {
  "chips": [
    {
      "value": "R&D <x>",
      "type": "label",
      "extra": 1
    }
  ],
  "size": "40",
  "fields": [],
  "time_start": null
}
`
	assert.Equal(t, want, out)
}

func TestRun_SearchErrorPropagatesUnmodified(t *testing.T) {
	boom := errors.New("401 unauthorized")
	sk := &fakeSketch{err: boom}
	_, err := run(t, sk, "text", nil)
	assert.Same(t, boom, err)
}

func TestRun_ViewReplacesFlags(t *testing.T) {
	viewFilter := NewQueryFilter(100, OrderDesc)
	viewFilter.AddChips(LabelChips("malware")...)
	sk := &fakeSketch{views: map[string]View{
		"my_view": {ID: 3, Name: "my_view", QueryString: "data_type:syslog", QueryFilter: viewFilter},
	}}
	_, err := run(t, sk, "text", func(o *Options) {
		o.View = "my_view"
		o.Query = "ignored"
		o.Labels = []string{"star"}
		o.Times = []string{"2020-01-01"}
	})
	require.NoError(t, err)
	require.Len(t, sk.calls, 1)
	got := sk.calls[0]
	assert.Equal(t, "data_type:syslog", got.query)
	assert.Equal(t, 100, got.filter.Size)
	require.Len(t, got.filter.Chips, 1)
	assert.Equal(t, "malware", got.filter.Chips[0].Value)
}

func TestRun_ViewDescribe(t *testing.T) {
	sk := &fakeSketch{views: map[string]View{
		"my_view": {Name: "my_view", QueryString: "foo", QueryFilter: NewQueryFilter(5, OrderAsc)},
	}}
	out, err := run(t, sk, "text", func(o *Options) {
		o.View = "my_view"
		o.Describe = true
		o.Labels = []string{"star"}
	})
	require.NoError(t, err)
	assert.Empty(t, sk.calls)
	assert.True(t, strings.HasPrefix(out, "Query string: foo\n"), out)
	assert.NotContains(t, out, "__ts_star")
}

func TestRun_ViewError(t *testing.T) {
	sk := &fakeSketch{viewErr: errors.New("no such view")}
	_, err := run(t, sk, "text", func(o *Options) { o.View = "missing" })
	assert.EqualError(t, err, "no such view")
	assert.Empty(t, sk.calls)
}
