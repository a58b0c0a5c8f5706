package explore

import (
	"errors"
	"fmt"
	"strings"
)

type ChipType string

const (
	ChipLabel         ChipType = "label"
	ChipDatetimeRange ChipType = "datetime_range"
)

const defaultOperator = "must"

// reservedLabelPrefix marks labels the server manages itself (stars and comments).
const reservedLabelPrefix = "__ts_"

var ErrUnknownChipType = errors.New("unknown chip type")

// Chip is one filter criterion of a query filter.
type Chip struct {
	Field    string   `json:"field"`
	Value    string   `json:"value"`
	Type     ChipType `json:"type"`
	Operator string   `json:"operator"`
	Active   *bool    `json:"active,omitempty"`
}

type TimeRange struct {
	Start string
	End   string
}

func (r TimeRange) String() string { return r.Start + "," + r.End }

// InstantRange expands a single timestamp into the range [t, t].
func InstantRange(t string) TimeRange { return TimeRange{Start: t, End: t} }

// ParseTimeRange accepts either "t" or "start,end".
func ParseTimeRange(s string) TimeRange {
	start, end, ok := strings.Cut(s, ",")
	if !ok {
		return InstantRange(s)
	}
	return TimeRange{Start: start, End: end}
}

func newChip(t ChipType, value string) Chip {
	return Chip{Field: "", Value: value, Type: t, Operator: defaultOperator}
}

func labelValue(label string) string {
	switch label {
	case "star", "comment":
		return reservedLabelPrefix + label
	}
	return label
}

func LabelChips(labels ...string) []Chip {
	chips := make([]Chip, 0, len(labels))
	for _, l := range labels {
		chips = append(chips, newChip(ChipLabel, labelValue(l)))
	}
	return chips
}

func DatetimeChips(ranges ...TimeRange) []Chip {
	chips := make([]Chip, 0, len(ranges))
	for _, r := range ranges {
		chips = append(chips, newChip(ChipDatetimeRange, r.String()))
	}
	return chips
}

// FilterChips builds one chip per raw value. Datetime values are either a single
// timestamp or a "start,end" pair; no format validation happens here.
func FilterChips(values []string, chipType ChipType) ([]Chip, error) {
	switch chipType {
	case ChipLabel:
		return LabelChips(values...), nil
	case ChipDatetimeRange:
		ranges := make([]TimeRange, 0, len(values))
		for _, v := range values {
			ranges = append(ranges, ParseTimeRange(v))
		}
		return DatetimeChips(ranges...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChipType, chipType)
	}
}
