package explore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DescribeQuery prints the query string and the filter as indented JSON. A filter
// loaded from a saved view is printed as stored.
func DescribeQuery(w io.Writer, query string, filter QueryFilter) error {
	b, err := encodeJSON(filter)
	if err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, b, "", "  "); err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}
	if _, err := fmt.Fprintf(w, "Query string: %s\n", query); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Filter: %s\n", indented.Bytes())
	return err
}
