package timesketch

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/tsketch/tsketch-cli/internal/explore"
	"github.com/valyala/fastjson"
)

const labelField = "label"

type fieldRef struct {
	Field string `json:"field"`
}

type exploreRequest struct {
	Query        string              `json:"query"`
	Filter       explore.QueryFilter `json:"filter"`
	DSL          string              `json:"dsl"`
	Fields       []fieldRef          `json:"fields"`
	EnableScroll bool                `json:"enable_scroll"`
}

// Explore runs a search in the sketch. The result always carries a label column.
func (c *Client) Explore(ctx context.Context, queryString string, filter explore.QueryFilter, returnFields []string) (*explore.Table, error) {
	fields := make([]fieldRef, 0, len(returnFields))
	for _, f := range returnFields {
		fields = append(fields, fieldRef{Field: f})
	}
	body, err := c.do(ctx, http.MethodPost, c.sketchPath("/explore/"), exploreRequest{
		Query:  queryString,
		Filter: filter,
		Fields: fields,
	})
	if err != nil {
		return nil, err
	}
	return parseEvents(body, returnFields)
}

// parseEvents builds the result table. Without requested fields the columns are
// the _source keys in the order they first appear.
func parseEvents(body []byte, returnFields []string) (*explore.Table, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode explore response: %w", err)
	}
	events := v.GetArray("objects")

	columns := append([]string{}, returnFields...)
	if len(columns) == 0 {
		seen := map[string]bool{}
		for _, ev := range events {
			src := ev.GetObject("_source")
			if src == nil {
				continue
			}
			src.Visit(func(k []byte, _ *fastjson.Value) {
				key := string(k)
				if key == labelField || seen[key] {
					return
				}
				seen[key] = true
				columns = append(columns, key)
			})
		}
	}
	if !slices.Contains(columns, labelField) {
		columns = append(columns, labelField)
	}

	t := explore.NewTable(columns...)
	for _, ev := range events {
		src := ev.Get("_source")
		rec := make(map[string]string, len(columns))
		for _, col := range columns {
			switch {
			case col == labelField:
				rec[col] = labels(src.Get(labelField))
			case strings.HasPrefix(col, "_") && src.Get(col) == nil:
				// _id, _index and friends live next to _source
				rec[col] = cell(ev.Get(col))
			default:
				rec[col] = cell(src.Get(col))
			}
		}
		t.AppendRecord(rec)
	}
	return t, nil
}

func cell(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return ""
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	default:
		return v.String()
	}
}

func labels(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	if v.Type() != fastjson.TypeArray {
		return cell(v)
	}
	arr, _ := v.Array()
	out := make([]string, 0, len(arr))
	for _, l := range arr {
		out = append(out, cell(l))
	}
	return strings.Join(out, ",")
}
