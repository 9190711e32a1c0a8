// Package console renders playlist summaries in the terminal.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/osa030/ytpdc/internal/domain/playlist"
)

// Messages are the labels shown by the presenter.
type Messages struct {
	Computing     string
	TotalDuration string
	Counted       string
	NotCounted    string
	ScrollHint    string
	RangeDuration string
	InvalidRange  string
	Unavailable   string
}

// DefaultMessages returns the English labels.
func DefaultMessages() Messages {
	return Messages{
		Computing:     "Calculating...",
		TotalDuration: "Total duration:",
		Counted:       "Videos counted:",
		NotCounted:    "Videos not counted:",
		ScrollHint:    "Scroll down to count more videos",
		RangeDuration: "Range duration:",
		InvalidRange:  "Please enter proper numbers!",
		Unavailable:   "N/A",
	}
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2)

var (
	labelStyle    = lipgloss.NewStyle()
	durationStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#86efac"))
	countedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fdba74"))
	missingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fca5a5"))
	rangeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#facc15"))
	hintStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Presenter writes summaries to a terminal. It implements poller.Presenter.
type Presenter struct {
	mu  sync.Mutex
	out io.Writer
	msg Messages
}

// NewPresenter creates a presenter writing to out.
// Blank labels in msg fall back to DefaultMessages.
func NewPresenter(out io.Writer, msg Messages) *Presenter {
	return &Presenter{out: out, msg: msg.withDefaults()}
}

func (m Messages) withDefaults() Messages {
	def := DefaultMessages()
	fill := func(v *string, fallback string) {
		if strings.TrimSpace(*v) == "" {
			*v = fallback
		}
	}
	fill(&m.Computing, def.Computing)
	fill(&m.TotalDuration, def.TotalDuration)
	fill(&m.Counted, def.Counted)
	fill(&m.NotCounted, def.NotCounted)
	fill(&m.ScrollHint, def.ScrollHint)
	fill(&m.RangeDuration, def.RangeDuration)
	fill(&m.InvalidRange, def.InvalidRange)
	fill(&m.Unavailable, def.Unavailable)
	return m
}

// Computing shows the placeholder.
func (p *Presenter) Computing() {
	p.write(boxStyle.Render(p.msg.Computing))
}

// Result shows the summary widget.
func (p *Presenter) Result(summary playlist.Summary) {
	p.write(p.RenderSummary(summary))
}

// Range shows the outcome of a range query.
func (p *Presenter) Range(formatted string, err error) {
	if err != nil {
		p.write(boxStyle.Render(row("Error:", missingStyle.Render(p.msg.InvalidRange))))
		return
	}
	p.write(boxStyle.Render(row(p.msg.RangeDuration, rangeStyle.Render(formatted))))
}

// RenderSummary renders the summary widget without writing it.
func (p *Presenter) RenderSummary(summary playlist.Summary) string {
	notCounted := p.msg.Unavailable
	if n, ok := summary.NotCounted(); ok {
		notCounted = strconv.Itoa(n)
	}

	lines := []string{
		row(p.msg.TotalDuration, durationStyle.Render(summary.FormattedDuration())),
		row(p.msg.Counted, countedStyle.Render(strconv.Itoa(summary.CountedItems))),
		row(p.msg.NotCounted, missingStyle.Render(notCounted)),
	}
	if summary.NeedsScrollHint() {
		lines = append(lines, "", hintStyle.Render("ⓘ "+p.msg.ScrollHint))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), " ", value)
}

func (p *Presenter) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}
