package timesketch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tsketch/tsketch-cli/internal/explore"
)

var ErrViewNotFound = errors.New("view not found")

type ViewSummary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type viewListResponse struct {
	Objects [][]ViewSummary `json:"objects"`
}

type viewDetail struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	QueryString string          `json:"query_string"`
	QueryFilter json.RawMessage `json:"query_filter"`
}

type viewResponse struct {
	Objects []viewDetail `json:"objects"`
}

func (c *Client) ListViews(ctx context.Context) ([]ViewSummary, error) {
	body, err := c.do(ctx, http.MethodGet, c.sketchPath("/views/"), nil)
	if err != nil {
		return nil, err
	}
	var resp viewListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode views: %w", err)
	}
	if len(resp.Objects) == 0 {
		return []ViewSummary{}, nil
	}
	return resp.Objects[0], nil
}

// GetView looks the view up by name and fetches its query and filter.
func (c *Client) GetView(ctx context.Context, name string) (explore.View, error) {
	views, err := c.ListViews(ctx)
	if err != nil {
		return explore.View{}, err
	}
	id := -1
	for _, v := range views {
		if v.Name == name {
			id = v.ID
			break
		}
	}
	if id < 0 {
		return explore.View{}, fmt.Errorf("%w: %q in sketch %d", ErrViewNotFound, name, c.sketchID)
	}

	body, err := c.do(ctx, http.MethodGet, c.sketchPath("/views/%d/", id), nil)
	if err != nil {
		return explore.View{}, err
	}
	var resp viewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return explore.View{}, fmt.Errorf("decode view %d: %w", id, err)
	}
	if len(resp.Objects) == 0 {
		return explore.View{}, fmt.Errorf("%w: %q in sketch %d", ErrViewNotFound, name, c.sketchID)
	}
	d := resp.Objects[0]
	filter, err := decodeFilter(d.QueryFilter)
	if err != nil {
		return explore.View{}, fmt.Errorf("view %q: %w", name, err)
	}
	return explore.View{ID: d.ID, Name: d.Name, QueryString: d.QueryString, QueryFilter: filter}, nil
}

// decodeFilter accepts the filter either as an object or, as the server stores it,
// as a JSON document inside a string.
func decodeFilter(raw json.RawMessage) (explore.QueryFilter, error) {
	var f explore.QueryFilter
	if len(raw) == 0 || string(raw) == "null" {
		return f, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return f, err
		}
		if s == "" {
			return f, nil
		}
		raw = json.RawMessage(s)
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("decode query filter: %w", err)
	}
	return f, nil
}
