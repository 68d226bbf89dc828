// Package notifications is the notification inbox: the full list with
// read/unread state, single and bulk mark-as-read.
package notifications

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/keys"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/notify"
	"github.com/careerconnect/client/internal/theme"
)

// loadedMsg signals the list fetch finished.
type loadedMsg struct {
	err error
}

// markResultMsg carries the outcome of a mark-read operation.
type markResultMsg struct {
	err error
}

// NotificationItem wraps a model.Notification for the bubbles list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string { return i.Notification.Title }

// ItemDelegate renders notification rows.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws a single notification line. Unread entries carry a dot
// marker and a bold title.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NotificationItem)
	if !ok {
		return
	}
	n := ni.Notification

	marker := "  "
	title := n.Title
	if !n.Read {
		marker = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("● ")
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}

	when := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + n.CreatedAt.Format("Jan 02 15:04"))

	line := fmt.Sprintf("%s%s%s", marker, title, when)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

// Model is the notification inbox view.
type Model struct {
	list     list.Model
	center   *notify.Center
	keys     *keys.KeyMap
	selected *model.Notification
	errMsg   string
	width    int
	height   int
}

// New creates a notification inbox over the given center.
func New(c *notify.Center, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		center: c,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the notification list.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Update handles messages for the notification inbox.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.errMsg = "Could not load notifications: " + api.Reason(msg.err)
		} else {
			m.errMsg = ""
		}
		return m, m.refreshItems()

	case markResultMsg:
		if msg.err != nil {
			m.errMsg = "Could not update: " + api.Reason(msg.err)
			return m, nil
		}
		m.errMsg = ""
		return m, m.refreshItems()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(NotificationItem)
			if !ok {
				return m, nil
			}
			n := item.Notification
			m.selected = &n
			if n.Read {
				return m, nil
			}
			return m, m.markRead(n.ID)

		case key.Matches(msg, m.keys.Back):
			if m.selected != nil {
				m.selected = nil
				return m, nil
			}

		case key.Matches(msg, m.keys.MarkAllRead):
			return m, m.markAllRead()

		case key.Matches(msg, m.keys.Refresh):
			return m, m.Load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification inbox.
func (m Model) View() string {
	if m.selected != nil {
		return m.renderDetail(*m.selected)
	}

	var sections []string
	if m.errMsg != "" {
		sections = append(sections, theme.ErrorBannerStyle.Render(m.errMsg))
	}

	if len(m.list.Items()) == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Width(m.width).
			Height(m.height-2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications."))
	} else {
		sections = append(sections, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDetail draws the full notification text.
func (m Model) renderDetail(n model.Notification) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	content := titleStyle.Render(n.Title) + "\n" +
		theme.HelpStyle.Render(n.CreatedAt.Format("2006-01-02 15:04")) + "\n\n" +
		n.Message + "\n\n" +
		theme.HelpStyle.Render("esc back")

	return theme.DetailPanelStyle.Render(content)
}

// refreshItems re-reads the center's snapshot into the list.
func (m *Model) refreshItems() tea.Cmd {
	notifications := m.center.Notifications()
	items := make([]list.Item, len(notifications))
	for i, n := range notifications {
		items[i] = NotificationItem{Notification: n}
	}
	if m.selected != nil {
		for _, n := range notifications {
			if n.ID == m.selected.ID {
				updated := n
				m.selected = &updated
				break
			}
		}
	}
	return m.list.SetItems(items)
}

// Load returns a tea.Cmd that fetches the notification list and count.
func (m Model) Load() tea.Cmd {
	c := m.center
	return func() tea.Msg {
		return loadedMsg{err: c.Load(context.Background())}
	}
}

// markRead returns a command that marks one notification read. The unread
// count is adjusted locally by the center; no second fetch happens.
func (m Model) markRead(id string) tea.Cmd {
	c := m.center
	return func() tea.Msg {
		return markResultMsg{err: c.MarkRead(context.Background(), id)}
	}
}

// markAllRead returns a command that marks every notification read.
func (m Model) markAllRead() tea.Cmd {
	c := m.center
	return func() tea.Msg {
		return markResultMsg{err: c.MarkAllRead(context.Background())}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
