package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/library"
)

// Vertical space taken by the header, command bar and footer.
const chromeHeight = 3

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the status bar with session and poll information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{bg.Render("shelf", styles.Logo)}

	switch {
	case snap.SessionExpired:
		parts = append(parts, bg.Render("Session expired", styles.DangerText.Bold(true)))
	case snap.User != nil:
		user := snap.User.DisplayName()
		if role := strings.TrimSpace(snap.User.Role); role != "" {
			user += " (" + strings.ToLower(role) + ")"
		}
		parts = append(parts, bg.Render(user, styles.Text.Bold(true)))
	default:
		parts = append(parts, bg.Render("Guest", styles.MutedText))
	}

	if snap.SignedIn() {
		unread := fmt.Sprintf("%d unread", snap.UnreadCount)
		style := styles.MutedText
		if snap.UnreadCount > 0 {
			style = m.statusText("unread").Bold(true)
		}
		parts = append(parts, bg.Render(unread, style))

		if m.session.HasExpiry() {
			now := time.Now()
			if m.session.Expired(now) {
				parts = append(parts, bg.Render("token expired", styles.WarningText))
			} else {
				parts = append(parts, bg.Render("session "+formatRemaining(m.session.Remaining(now)), styles.FaintText))
			}
		}

		if overdue := countOverdue(snap.Loans); overdue > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d overdue", overdue), m.statusText("overdue").Bold(true)))
		}
	}

	switch {
	case !snap.HasData && snap.LastError == nil:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText))
	case snap.LastError != nil:
		label := "Request failed"
		if snap.IsOffline() {
			label = "Offline"
		}
		parts = append(parts,
			bg.Render(label, styles.DangerText.Bold(true)),
			bg.Render(truncate(m.errorText(snap.LastError), 48), styles.MutedText))
	default:
		parts = append(parts, bg.Render("Updated "+snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLoans:
		commands = []cmd{
			{"r", "Renew"},
			{"R", "Return"},
			{"j/k", "Navigate"},
		}
	case ViewNotifications:
		commands = []cmd{
			{"m", "Read"},
			{"M", "Read all"},
			{"j/k", "Navigate"},
		}
	case ViewAnnouncements:
		commands = []cmd{
			{"j/k", "Navigate"},
		}
	default: // ViewCatalog
		commands = []cmd{
			{"/", "Filter"},
			{"b", "Borrow"},
			{"f/F", "Favorite"},
			{"j/k", "Navigate"},
		}
	}
	commands = append(commands, cmd{"1-4", "Views"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.currentView {
			segments = append(segments, bg.Render(label, styles.AccentText.Bold(true)))
		} else {
			segments = append(segments, bg.Render(label, styles.FaintText))
		}
	}
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.filtering {
		segments = append(segments, m.filter.View())
	} else if m.currentView == ViewCatalog && m.filterQuery != "" {
		segments = append(segments, bg.Render("/"+truncate(m.filterQuery, 18), styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderFooter shows the result of the last action.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.status == "" {
		return styles.Footer.Width(m.width).Render("")
	}
	style := styles.SuccessText
	if m.statusError {
		style = styles.DangerText
	}
	return styles.Footer.Width(m.width).Render(style.Render(truncate(m.status, m.width-2)))
}

// paneWidths splits the content area. A zero detail width hides the pane.
func (m Model) paneWidths() (list, detail int) {
	if m.width < LayoutCompactWidth {
		return m.width, 0
	}
	list = m.width * 45 / 100
	return list, m.width - list
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 3)
}

// renderContent renders the list pane and, on wide terminals, the detail pane.
func (m Model) renderContent() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	listWidth, detailWidth := m.paneWidths()

	if m.rowCount() == 0 {
		emptyMsg := styles.MutedText.Render(m.emptyMessage())
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	listPane := m.renderTitledBox(m.listTitle(), m.renderList(listWidth-2, height-2), listWidth, height, true)
	if detailWidth == 0 {
		return listPane
	}
	detailPane := m.renderTitledBox("Details", m.detailViewport.View(), detailWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) emptyMessage() string {
	switch m.currentView {
	case ViewLoans, ViewNotifications:
		if !m.snapshot.SignedIn() {
			return "Sign in with `shelf login` to see this view"
		}
		if m.currentView == ViewLoans {
			return "No loans"
		}
		return "No notifications"
	case ViewAnnouncements:
		return "No announcements"
	default:
		if m.filterQuery != "" {
			return "No books match " + m.filterQuery
		}
		if !m.snapshot.HasData {
			return "Loading catalog..."
		}
		return "The catalog is empty"
	}
}

func (m Model) listTitle() string {
	switch m.currentView {
	case ViewCatalog:
		page := m.snapshot.Books
		visible := len(m.visibleBooks())
		if m.filterQuery != "" {
			return fmt.Sprintf("Catalog (%d of %d)", visible, len(page.List))
		}
		if page.Total > 0 {
			return fmt.Sprintf("Catalog (%d of %d)", len(page.List), page.Total)
		}
		return "Catalog"
	case ViewNotifications:
		return fmt.Sprintf("Notifications (%d unread)", m.snapshot.UnreadCount)
	default:
		return m.currentView.String()
	}
}

// renderList renders rows for the current view, scrolled to keep the
// selection visible.
func (m Model) renderList(width, height int) string {
	var rows []string
	switch m.currentView {
	case ViewLoans:
		for i, l := range m.snapshot.Loans {
			rows = append(rows, m.formatRow(i, width, l.BookTitle, m.loanBadge(l), loanStatus(l)))
		}
	case ViewNotifications:
		for i, n := range m.snapshot.Notifications {
			status := ""
			if !n.IsRead {
				status = "unread"
			}
			rows = append(rows, m.formatRow(i, width, n.Title, m.formatter.Format(n.CreatedAt), status))
		}
	case ViewAnnouncements:
		for i, a := range m.snapshot.Announcements {
			title := a.Title
			status := ""
			if a.Pinned {
				title = "^ " + title
				status = "pinned"
			}
			rows = append(rows, m.formatRow(i, width, title, m.formatter.Format(a.CreatedAt), status))
		}
	default:
		for i, b := range m.visibleBooks() {
			badge := fmt.Sprintf("%d/%d", b.AvailableCount, b.TotalCount)
			rows = append(rows, m.formatRow(i, width, b.Title, badge, bookStatus(b)))
		}
	}

	selected := m.selected[m.currentView]
	start := 0
	if height > 0 && selected >= height {
		start = selected - height + 1
	}
	end := min(len(rows), start+max(height, 0))
	return strings.Join(rows[start:end], "\n")
}

// formatRow renders "title · badge" with the badge colored by status.
func (m Model) formatRow(index, width int, title, badge, status string) string {
	selected := index == m.selected[m.currentView]
	bgColor := m.theme.SurfaceAlt
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)

	titleWidth := max(width-len([]rune(badge))-4, 10)

	var titleStyle, sepStyle, badgeStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		titleStyle, sepStyle, badgeStyle = selText, selText, selText
	} else {
		styles := m.theme.Styles()
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		badgeStyle = m.statusText(status)
	}

	content := bg.Render(truncate(title, titleWidth), titleStyle)
	if badge != "" {
		content += bg.Render(" · ", sepStyle) + bg.Render(badge, badgeStyle)
	}
	return bg.FillLine(content, width)
}

func (m Model) loanBadge(l library.Loan) string {
	switch {
	case l.Returned():
		return "returned " + m.formatter.Format(l.ReturnDate)
	case l.Overdue:
		if l.OverdueDays > 0 {
			return fmt.Sprintf("overdue %dd", l.OverdueDays)
		}
		return "overdue"
	}
	left := l.DueIn(time.Now())
	if left <= 0 {
		return "due"
	}
	return fmt.Sprintf("due in %dd", int(left.Hours()/24)+1)
}

// statusText returns a foreground style for a status, falling back to muted.
func (m Model) statusText(status string) lipgloss.Style {
	color, ok := m.theme.StatusColors[status]
	if !ok {
		color = m.theme.Muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// formatRemaining renders a session lifetime as "2d", "5h" or "12m".
func formatRemaining(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dm", max(int(d.Minutes()), 1))
	}
}

func countOverdue(loans []library.Loan) int {
	n := 0
	for _, l := range loans {
		if l.Overdue && !l.Returned() {
			n++
		}
	}
	return n
}

// renderTitledBox renders content in a box with the title embedded in the top border.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr = m.theme.BorderFocus
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := len([]rune(title))
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
