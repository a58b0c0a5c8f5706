package console

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tsketch/tsketch-cli/internal/timesketch"
)

var ErrNoViews = errors.New("sketch has no saved views")

func (c *ConsoleUI) RunViewsImperative(ctx context.Context, sketchID int) error {
	views, err := c.views.ListViews(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, renderViews(sketchID, views))
	return nil
}

// SelectView asks the user to pick one of the sketch's saved views by name.
func (c *ConsoleUI) SelectView(ctx context.Context) (string, error) {
	views, err := c.views.ListViews(ctx)
	if err != nil {
		return "", err
	}
	if len(views) == 0 {
		return "", ErrNoViews
	}
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	var choice string
	if err := askOne(&survey.Select{Message: "Select a saved view", Options: names}, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

func ConfirmOverwrite(path string) (bool, error) {
	ok := false
	if err := askOne(&survey.Confirm{Message: "Overwrite " + path + "?", Default: false}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func renderViews(sketchID int, views []timesketch.ViewSummary) string {
	var b strings.Builder
	b.WriteString(text.Bold.Sprint("sketch "+strconv.Itoa(sketchID)) + "\n")
	if len(views) == 0 {
		b.WriteString(text.FgHiBlack.Sprint("no saved views") + "\n")
		return b.String()
	}
	vs := append([]timesketch.ViewSummary{}, views...)
	sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Name", "User", "Updated"})
	for _, v := range vs {
		user := v.User
		if user == "" {
			user = "-"
		}
		updated := v.UpdatedAt
		if updated == "" {
			updated = "-"
		}
		tw.AppendRow(table.Row{v.ID, v.Name, user, updated})
	}
	b.WriteString(tw.Render())
	b.WriteString("\n")
	return b.String()
}
