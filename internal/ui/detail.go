package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/library"
)

// resizeDetail fits the detail viewport inside its pane borders.
func (m *Model) resizeDetail() {
	_, detailWidth := m.paneWidths()
	m.detailViewport.Width = max(detailWidth-4, 0)
	m.detailViewport.Height = max(m.contentHeight()-2, 0)
}

// updateDetailViewport re-renders the detail pane for the current selection.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.resizeDetail()
	width := m.detailViewport.Width
	var content string
	switch m.currentView {
	case ViewLoans:
		if l := m.selectedLoan(); l != nil {
			content = m.loanDetail(*l, width)
		}
	case ViewNotifications:
		if n := m.selectedNotification(); n != nil {
			content = m.notificationDetail(*n, width)
		}
	case ViewAnnouncements:
		if a := m.selectedAnnouncement(); a != nil {
			content = m.announcementDetail(*a, width)
		}
	default:
		if b := m.selectedBook(); b != nil {
			content = m.bookDetail(*b, width)
		}
	}
	if content == "" {
		content = m.theme.Styles().MutedText.Render("Select an item")
	}
	m.detailViewport.SetContent(content)
	m.detailViewport.GotoTop()
}

// detailBuilder accumulates label/value lines.
type detailBuilder struct {
	b      strings.Builder
	styles Styles
	width  int
}

func (m Model) newDetail(width int) *detailBuilder {
	return &detailBuilder{styles: m.theme.Styles(), width: width}
}

func (d *detailBuilder) title(text string) {
	d.b.WriteString(d.styles.Text.Bold(true).Render(truncate(text, d.width)))
	d.b.WriteString("\n")
}

func (d *detailBuilder) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d.b.WriteString(d.styles.FaintText.Width(12).Render(label))
	d.b.WriteString(d.styles.Text.Render(truncate(value, max(d.width-12, 8))))
	d.b.WriteString("\n")
}

func (d *detailBuilder) line(text string) {
	d.b.WriteString(text)
	d.b.WriteString("\n")
}

// body wraps free text to the pane width.
func (d *detailBuilder) body(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	d.b.WriteString("\n")
	d.b.WriteString(lipgloss.NewStyle().Width(max(d.width, 10)).Render(d.styles.MutedText.Render(text)))
	d.b.WriteString("\n")
}

func (d *detailBuilder) String() string {
	return strings.TrimRight(d.b.String(), "\n")
}

func (m Model) bookDetail(b library.Book, width int) string {
	d := m.newDetail(width)
	d.title(b.Title)
	d.line(d.styles.StatusStyle(bookStatus(b)).Render(titleCase(bookStatus(b))))
	d.line("")
	d.field("Author", b.Author)
	d.field("ISBN", b.ISBN)
	d.field("Publisher", b.Publisher)
	d.field("Published", b.PublishDate)
	d.field("Category", b.CategoryName)
	d.field("Location", b.Location)
	d.field("Copies", fmt.Sprintf("%d of %d available", b.AvailableCount, b.TotalCount))
	if b.Price > 0 {
		d.field("Price", fmt.Sprintf("%.2f", b.Price))
	}
	if src, fallback, known := m.covers.describe(b.ID); known {
		label := src
		if fallback {
			label += " (placeholder)"
		}
		d.field("Cover", label)
	} else if b.CoverURL != "" {
		d.field("Cover", b.CoverURL+" (checking)")
	}
	d.body(b.Description)
	return d.String()
}

func (m Model) loanDetail(l library.Loan, width int) string {
	d := m.newDetail(width)
	d.title(l.BookTitle)
	status := loanStatus(l)
	label := titleCase(status)
	if l.StatusDesc != "" {
		label = l.StatusDesc
	}
	d.line(d.styles.StatusStyle(status).Render(label))
	d.line("")
	d.field("Author", l.BookAuthor)
	d.field("ISBN", l.BookISBN)
	d.field("Borrowed", l.BorrowDate)
	d.field("Due", l.DueDate)
	if l.Returned() {
		d.field("Returned", l.ReturnDate)
	} else {
		d.field("Status", m.loanBadge(l))
	}
	if l.MaxRenewCount > 0 {
		d.field("Renewals", fmt.Sprintf("%d of %d", l.RenewCount, l.MaxRenewCount))
	}
	if l.OverdueDays > 0 {
		d.field("Overdue", fmt.Sprintf("%d days", l.OverdueDays))
	}
	if l.FineAmount > 0 {
		paid := "unpaid"
		if l.FinePaid {
			paid = "paid"
		}
		d.field("Fine", fmt.Sprintf("%.2f (%s)", l.FineAmount, paid))
	}
	d.body(l.Remark)
	return d.String()
}

func (m Model) notificationDetail(n library.Notification, width int) string {
	d := m.newDetail(width)
	d.title(n.Title)
	if !n.IsRead {
		d.line(d.styles.StatusStyle("unread").Render("Unread"))
	}
	d.line("")
	d.field("Type", titleCase(n.Type))
	d.field("Received", m.formatter.Format(n.CreatedAt))
	d.body(n.Content)
	return d.String()
}

func (m Model) announcementDetail(a library.Announcement, width int) string {
	d := m.newDetail(width)
	d.title(a.Title)
	if a.Pinned {
		d.line(d.styles.StatusStyle("pinned").Render("Pinned"))
	}
	d.line("")
	kind := a.TypeDesc
	if kind == "" {
		kind = titleCase(a.Type)
	}
	d.field("Type", kind)
	d.field("Publisher", a.PublisherName)
	d.field("Posted", m.formatter.Format(a.CreatedAt))
	d.body(a.Content)
	return d.String()
}
