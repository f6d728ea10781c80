package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewCatalog       key.Binding
	ViewLoans         key.Binding
	ViewNotifications key.Binding
	ViewAnnouncements key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Catalog actions
	Search         key.Binding
	Borrow         key.Binding
	Favorite       key.Binding
	RemoveFavorite key.Binding

	// Loan actions
	Renew  key.Binding
	Return key.Binding

	// Notification actions
	MarkRead    key.Binding
	MarkAllRead key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Return to catalog"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Refresh now"),
		),

		// View switching
		ViewCatalog: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Catalog"),
		),
		ViewLoans: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "My loans"),
		),
		ViewNotifications: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Notifications"),
		),
		ViewAnnouncements: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Announcements"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		// Catalog actions
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter catalog"),
		),
		Borrow: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Borrow book"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Add favorite"),
		),
		RemoveFavorite: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Remove favorite"),
		),

		// Loan actions
		Renew: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Renew loan"),
		),
		Return: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Return book"),
		),

		// Notification actions
		MarkRead: key.NewBinding(
			key.WithKeys("m", "enter"),
			key.WithHelp("m", "Mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "Mark all read"),
		),

		// Search/input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewCatalog, k.ViewLoans, k.ViewNotifications, k.ViewAnnouncements},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Search, k.Borrow, k.Favorite, k.RemoveFavorite},
		{k.Renew, k.Return},
		{k.MarkRead, k.MarkAllRead},
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
