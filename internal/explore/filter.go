package explore

import (
	"bytes"
	"encoding/json"
	"sort"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// allIndices searches every timeline of the sketch.
const allIndices = "_all"

// QueryFilter is the structured part of a search request. Indices hold index names
// or numeric timeline ids. Keys the client does not know about (filters saved from
// the web UI carry a few) are kept in Extra.
//
// A decoded filter also keeps its source document in Raw and encodes back to it
// unchanged, so saved view filters are sent and described exactly as stored.
// AddChips drops Raw.
type QueryFilter struct {
	From           int
	TerminateAfter int
	Size           int
	Indices        []any
	Order          string
	Chips          []Chip
	Extra          map[string]json.RawMessage
	Raw            json.RawMessage
}

func NewQueryFilter(limit int, order string) QueryFilter {
	return QueryFilter{
		From:           0,
		TerminateAfter: limit,
		Size:           limit,
		Indices:        []any{allIndices},
		Order:          order,
		Chips:          []Chip{},
	}
}

func (f *QueryFilter) AddChips(chips ...Chip) {
	f.Chips = append(f.Chips, chips...)
	f.Raw = nil
}

var filterKeys = []string{"from", "terminate_after", "size", "indices", "order", "chips"}

func (f QueryFilter) MarshalJSON() ([]byte, error) {
	if len(f.Raw) > 0 {
		var b bytes.Buffer
		if err := json.Compact(&b, f.Raw); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	}
	indices := f.Indices
	if indices == nil {
		indices = []any{}
	}
	chips := f.Chips
	if chips == nil {
		chips = []Chip{}
	}
	values := []any{f.From, f.TerminateAfter, f.Size, indices, f.Order, chips}

	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range filterKeys {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeMember(&b, k, values[i]); err != nil {
			return nil, err
		}
	}
	extra := make([]string, 0, len(f.Extra))
	for k := range f.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		b.WriteByte(',')
		if err := writeMember(&b, k, f.Extra[k]); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func writeMember(b *bytes.Buffer, key string, v any) error {
	kb, err := encodeJSON(key)
	if err != nil {
		return err
	}
	vb, err := encodeJSON(v)
	if err != nil {
		return err
	}
	b.Write(kb)
	b.WriteByte(':')
	b.Write(vb)
	return nil
}

func (f *QueryFilter) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := QueryFilter{}
	targets := map[string]any{
		"from":            &out.From,
		"terminate_after": &out.TerminateAfter,
		"size":            &out.Size,
		"indices":         &out.Indices,
		"order":           &out.Order,
		"chips":           &out.Chips,
	}
	for k, v := range raw {
		dst, known := targets[k]
		if !known {
			if out.Extra == nil {
				out.Extra = map[string]json.RawMessage{}
			}
			out.Extra[k] = v
			continue
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		// values the typed view cannot hold, like "size":"40", still travel in Raw
		_ = json.Unmarshal(v, dst)
	}
	out.Raw = append(json.RawMessage(nil), data...)
	*f = out
	return nil
}

// encodeJSON is json.Marshal without HTML escaping.
func encodeJSON(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}
