package explore

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryFilter_JSON(t *testing.T) {
	f := NewQueryFilter(40, OrderDesc)
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t,
		`{"from":0,"terminate_after":40,"size":40,"indices":["_all"],"order":"desc","chips":[]}`,
		string(b))
}

func TestQueryFilter_NilSlicesEncodeEmpty(t *testing.T) {
	b, err := json.Marshal(QueryFilter{Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, `{"from":0,"terminate_after":0,"size":0,"indices":[],"order":"asc","chips":[]}`, string(b))
}

func TestQueryFilter_RoundTripKeepsUnknownKeys(t *testing.T) {
	in := `{"chips":[{"field":"","value":"__ts_star","type":"label","operator":"must","active":true}],
		"from":0,"size":100,"terminate_after":100,"indices":["_all"],"order":"desc",
		"time_end":null,"exclude":[]}`
	var f QueryFilter
	require.NoError(t, json.Unmarshal([]byte(in), &f))
	assert.Equal(t, 100, f.Size)
	assert.Equal(t, "desc", f.Order)
	require.Len(t, f.Chips, 1)
	require.NotNil(t, f.Chips[0].Active)
	assert.True(t, *f.Chips[0].Active)
	assert.Contains(t, f.Extra, "time_end")
	assert.Contains(t, f.Extra, "exclude")

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t,
		`{"chips":[{"field":"","value":"__ts_star","type":"label","operator":"must","active":true}],`+
			`"from":0,"size":100,"terminate_after":100,"indices":["_all"],"order":"desc",`+
			`"time_end":null,"exclude":[]}`,
		string(b), "decoded filter must encode back as stored")

	f.Raw = nil
	b, err = json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t,
		`{"from":0,"terminate_after":100,"size":100,"indices":["_all"],"order":"desc",`+
			`"chips":[{"field":"","value":"__ts_star","type":"label","operator":"must","active":true}],`+
			`"exclude":[],"time_end":null}`,
		string(b))
}

func TestQueryFilter_StoredFormKeptVerbatim(t *testing.T) {
	in := `{"chips":[{"value":"R&D <x>","type":"label","extra":1}],"size":"40","fields":[{"field":"message"}],"time_start":null}`
	var f QueryFilter
	require.NoError(t, json.Unmarshal([]byte(in), &f))
	assert.Equal(t, 0, f.Size)
	require.Len(t, f.Chips, 1)
	assert.Equal(t, "R&D <x>", f.Chips[0].Value)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(f))
	assert.Equal(t, in+"\n", buf.String())
}

func TestQueryFilter_AddChipsDropsStoredForm(t *testing.T) {
	var f QueryFilter
	require.NoError(t, json.Unmarshal([]byte(`{"order":"asc","chips":[]}`), &f))
	f.AddChips(LabelChips("star")...)
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"value":"__ts_star"`)
	assert.Contains(t, string(b), `"from":0`)
}

func TestQueryFilter_NoHTMLEscaping(t *testing.T) {
	f := NewQueryFilter(1, OrderAsc)
	f.AddChips(LabelChips("R&D <x>")...)
	b, err := encodeJSON(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"value":"R&D <x>"`)
}

func TestQueryFilter_NullKnownKeysIgnored(t *testing.T) {
	var f QueryFilter
	require.NoError(t, json.Unmarshal([]byte(`{"chips":null,"order":"asc"}`), &f))
	assert.Nil(t, f.Chips)
	assert.Equal(t, "asc", f.Order)
}

func TestQueryFilter_NumericIndices(t *testing.T) {
	var f QueryFilter
	require.NoError(t, json.Unmarshal([]byte(`{"indices":[1,2],"order":"asc"}`), &f))
	require.Len(t, f.Indices, 2)
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"indices":[1,2]`)
}
