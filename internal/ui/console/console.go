package console

import (
	"context"
	"io"
	"os"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/tsketch/tsketch-cli/internal/timesketch"
)

type ViewLister interface {
	ListViews(ctx context.Context) ([]timesketch.ViewSummary, error)
}

type ConsoleUI struct {
	views ViewLister
	out   io.Writer
}

// askOne is replaced in tests.
var askOne = survey.AskOne

func NewConsoleUI(views ViewLister) *ConsoleUI {
	return &ConsoleUI{views: views, out: os.Stdout}
}

func (c *ConsoleUI) SetOutput(w io.Writer) { c.out = w }
