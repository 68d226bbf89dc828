package browse

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/theme"
)

// PostingItem wraps a model.Posting so it can be used in a bubbles/list.
type PostingItem struct {
	Posting model.Posting
}

// FilterValue returns the string used for fuzzy filtering.
func (i PostingItem) FilterValue() string { return i.Posting.Title }

// ItemDelegate implements list.ItemDelegate for rendering posting rows.
type ItemDelegate struct {
	// now is the clock used for the deadline check.
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single posting line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(PostingItem)
	if !ok {
		return
	}
	p := pi.Posting

	kindBadge := theme.KindLabelStyle(p.Kind).Render(kindLabel(p.Kind))
	statusBadge := theme.PostingStatusStyle(p.Status).Render(p.Status)

	deadlineStr := ""
	if p.Deadline != nil {
		deadlineStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + p.Deadline.Format("Jan 02"))
	}

	expiredStr := ""
	if p.Expired(d.clock()) {
		expiredStr = lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(" EXPIRED")
	}

	owner := ""
	if p.OwnerName != "" {
		owner = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("  " + p.OwnerName)
	}

	line := fmt.Sprintf(
		"%s %s %s%s%s%s",
		kindBadge, statusBadge, p.Title, owner, deadlineStr, expiredStr,
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func (d ItemDelegate) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}

// kindLabel returns a short badge text for the posting kind.
func kindLabel(kind model.PostingKind) string {
	switch kind {
	case model.PostingCourse:
		return "CRS"
	default:
		return "JOB"
	}
}
