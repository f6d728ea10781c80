package ui

import (
	"strings"

	"github.com/five82/shelf/internal/library"
)

// visibleBooks returns the catalog page filtered by the active query.
func (m Model) visibleBooks() []library.Book {
	books := m.snapshot.Books.List
	query := strings.ToLower(strings.TrimSpace(m.filterQuery))
	if query == "" {
		return books
	}
	var out []library.Book
	for _, b := range books {
		haystack := strings.ToLower(strings.Join([]string{b.Title, b.Author, b.ISBN, b.CategoryName}, " "))
		if strings.Contains(haystack, query) {
			out = append(out, b)
		}
	}
	return out
}

// rowCount returns the number of selectable rows in the current view.
func (m Model) rowCount() int {
	switch m.currentView {
	case ViewLoans:
		return len(m.snapshot.Loans)
	case ViewNotifications:
		return len(m.snapshot.Notifications)
	case ViewAnnouncements:
		return len(m.snapshot.Announcements)
	default:
		return len(m.visibleBooks())
	}
}

// clampSelection keeps every view's selection inside its list.
func (m *Model) clampSelection() {
	current := m.currentView
	for _, v := range viewOrder {
		m.currentView = v
		count := m.rowCount()
		row := m.selected[v]
		switch {
		case count == 0:
			row = 0
		case row >= count:
			row = count - 1
		case row < 0:
			row = 0
		}
		m.selected[v] = row
	}
	m.currentView = current
}

func (m Model) selectedBook() *library.Book {
	books := m.visibleBooks()
	row := m.selected[ViewCatalog]
	if row < 0 || row >= len(books) {
		return nil
	}
	return &books[row]
}

func (m Model) selectedLoan() *library.Loan {
	row := m.selected[ViewLoans]
	if row < 0 || row >= len(m.snapshot.Loans) {
		return nil
	}
	return &m.snapshot.Loans[row]
}

func (m Model) selectedNotification() *library.Notification {
	row := m.selected[ViewNotifications]
	if row < 0 || row >= len(m.snapshot.Notifications) {
		return nil
	}
	return &m.snapshot.Notifications[row]
}

func (m Model) selectedAnnouncement() *library.Announcement {
	row := m.selected[ViewAnnouncements]
	if row < 0 || row >= len(m.snapshot.Announcements) {
		return nil
	}
	return &m.snapshot.Announcements[row]
}

// loanStatus maps a loan to a StatusColors key.
func loanStatus(l library.Loan) string {
	switch {
	case l.Returned():
		return "returned"
	case l.Overdue:
		return "overdue"
	case l.RenewCount > 0:
		return "renewed"
	default:
		return "borrowed"
	}
}

// bookStatus maps a book to a StatusColors key.
func bookStatus(b library.Book) string {
	if b.Available() {
		return "available"
	}
	return "unavailable"
}
