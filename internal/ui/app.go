package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/libcommon"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewLoans
	ViewNotifications
	ViewAnnouncements
)

var viewOrder = []View{ViewCatalog, ViewLoans, ViewNotifications, ViewAnnouncements}

func (v View) String() string {
	switch v {
	case ViewLoans:
		return "My Loans"
	case ViewNotifications:
		return "Notifications"
	case ViewAnnouncements:
		return "Announcements"
	default:
		return "Catalog"
	}
}

// Actions are the write operations the UI can trigger.
type Actions interface {
	Borrow(ctx context.Context, bookID int64, days int) (*library.Loan, error)
	ReturnLoan(ctx context.Context, loanID int64) (*library.Loan, error)
	RenewLoan(ctx context.Context, loanID int64) (*library.Loan, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	AddFavorite(ctx context.Context, bookID int64) (*library.Favorite, error)
	RemoveFavorite(ctx context.Context, bookID int64) error
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *state.Store
	Actions      Actions
	Refresh      func()
	Formatter    *libcommon.TimeFormatter
	ErrorText    func(error) string
	Placeholders libcommon.Placeholders
	CoverProbe   CoverProbe
	Session      func() session.Info
	Log          logging.Logger
	PollTick     time.Duration
	ThemeName    string
	PrefsPath    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	actions   Actions
	refresh   func()
	formatter *libcommon.TimeFormatter
	errorText func(error) string
	inspect   func() session.Info
	log       logging.Logger
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot state.Snapshot
	session  session.Info

	// Selection per view
	selected map[View]int

	// Catalog filter
	filter      textinput.Model
	filterQuery string
	filtering   bool

	// Cover images keyed by book ID
	covers *coverCache

	// Detail pane
	detailViewport viewport.Model

	// Footer message from the last action
	status      string
	statusError bool

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	formatter := opts.Formatter
	if formatter == nil {
		formatter = libcommon.NewTimeFormatter(nil, nil)
	}

	errorText := opts.ErrorText
	if errorText == nil {
		errorText = func(err error) string { return err.Error() }
	}

	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	refresh := opts.Refresh
	if refresh == nil {
		refresh = func() {}
	}

	inspect := opts.Session
	if inspect == nil {
		inspect = func() session.Info { return session.Info{} }
	}

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "title, author or ISBN"
	filter.CharLimit = 64

	return Model{
		ctx:         ctx,
		store:       opts.Store,
		actions:     opts.Actions,
		refresh:     refresh,
		formatter:   formatter,
		errorText:   errorText,
		inspect:     inspect,
		log:         log,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewCatalog,
		selected:    make(map[View]int),
		filter:      filter,
		covers:      newCoverCache(opts.Placeholders, opts.CoverProbe),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeDetail()
		m.clampSelection()
		m.updateDetailViewport()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.session = m.inspect()
		m.clampSelection()
		m.updateDetailViewport()
		return m, m.probeSelectedCover()

	case actionResultMsg:
		m.handleActionResult(msg)
		return m, nil

	case coverResultMsg:
		m.covers.resolve(msg)
		m.updateDetailViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			name := m.theme.Name
			if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
				m.log.Warnf("save theme preference: %v", err)
			}
		}
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		m.setStatus("Refreshing...", false)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.stepView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.stepView(-1))

	case key.Matches(msg, m.keys.ViewCatalog):
		return m.switchView(ViewCatalog)

	case key.Matches(msg, m.keys.ViewLoans):
		return m.switchView(ViewLoans)

	case key.Matches(msg, m.keys.ViewNotifications):
		return m.switchView(ViewNotifications)

	case key.Matches(msg, m.keys.ViewAnnouncements):
		return m.switchView(ViewAnnouncements)

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewCatalog && m.filterQuery != "" {
			m.filterQuery = ""
			m.filter.SetValue("")
			m.clampSelection()
			m.updateDetailViewport()
			return m, m.probeSelectedCover()
		}
		return m.switchView(ViewCatalog)

	case key.Matches(msg, m.keys.Up):
		return m.moveSelection(-1)

	case key.Matches(msg, m.keys.Down):
		return m.moveSelection(1)

	case key.Matches(msg, m.keys.Top):
		return m.moveSelection(-m.rowCount())

	case key.Matches(msg, m.keys.Bottom):
		return m.moveSelection(m.rowCount())
	}

	// View-specific keys
	switch m.currentView {
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewLoans:
		return m.handleLoansKey(msg)
	case ViewNotifications:
		return m.handleNotificationsKey(msg)
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.filterQuery = m.filter.Value()
		m.filtering = false
		m.filter.Blur()
		m.selected[ViewCatalog] = 0
		m.updateDetailViewport()
		return m, m.probeSelectedCover()

	case key.Matches(msg, m.keys.Escape):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue(m.filterQuery)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Search) {
		m.filtering = true
		m.filter.SetValue(m.filterQuery)
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	}

	book := m.selectedBook()
	if book == nil {
		return m, nil
	}
	id, title := book.ID, book.Title

	switch {
	case key.Matches(msg, m.keys.Borrow):
		if !book.Available() {
			m.setStatus(title+" has no copies available", true)
			return m, nil
		}
		return m, m.runAction("Borrowed "+title, func(ctx context.Context) error {
			_, err := m.actions.Borrow(ctx, id, 0)
			return err
		})

	case key.Matches(msg, m.keys.Favorite):
		return m, m.runAction("Added "+title+" to favorites", func(ctx context.Context) error {
			_, err := m.actions.AddFavorite(ctx, id)
			return err
		})

	case key.Matches(msg, m.keys.RemoveFavorite):
		return m, m.runAction("Removed "+title+" from favorites", func(ctx context.Context) error {
			return m.actions.RemoveFavorite(ctx, id)
		})
	}
	return m, nil
}

func (m Model) handleLoansKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loan := m.selectedLoan()
	if loan == nil || loan.Returned() {
		return m, nil
	}
	id, title := loan.ID, loan.BookTitle

	switch {
	case key.Matches(msg, m.keys.Renew):
		if !loan.CanRenew {
			m.setStatus(title+" cannot be renewed", true)
			return m, nil
		}
		return m, m.runAction("Renewed "+title, func(ctx context.Context) error {
			_, err := m.actions.RenewLoan(ctx, id)
			return err
		})

	case key.Matches(msg, m.keys.Return):
		return m, m.runAction("Returned "+title, func(ctx context.Context) error {
			_, err := m.actions.ReturnLoan(ctx, id)
			return err
		})
	}
	return m, nil
}

func (m Model) handleNotificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.MarkAllRead):
		if m.snapshot.UnreadCount == 0 {
			return m, nil
		}
		return m, m.runAction("All notifications marked read", func(ctx context.Context) error {
			return m.actions.MarkAllRead(ctx)
		})

	case key.Matches(msg, m.keys.MarkRead):
		n := m.selectedNotification()
		if n == nil || n.IsRead {
			return m, nil
		}
		id := n.ID
		return m, m.runAction("Marked read", func(ctx context.Context) error {
			return m.actions.MarkRead(ctx, id)
		})
	}
	return m, nil
}

// runAction wraps a write call in a command, or reports that actions need a
// signed-in session.
func (m *Model) runAction(success string, fn func(context.Context) error) tea.Cmd {
	if m.actions == nil || !m.snapshot.SignedIn() {
		m.setStatus("Sign in with `shelf login` first", true)
		return nil
	}
	m.setStatus("Working...", false)
	return actionCmd(m.ctx, success, fn)
}

func (m *Model) handleActionResult(msg actionResultMsg) {
	if msg.err != nil {
		m.log.Warnf("action failed: %v", msg.err)
		m.setStatus(m.errorText(msg.err), true)
		return
	}
	m.setStatus(msg.success, false)
	m.refresh()
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
}

func (m Model) stepView(delta int) View {
	idx := 0
	for i, v := range viewOrder {
		if v == m.currentView {
			idx = i
			break
		}
	}
	n := len(viewOrder)
	return viewOrder[((idx+delta)%n+n)%n]
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.clampSelection()
	m.updateDetailViewport()
	return m, m.probeSelectedCover()
}

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	count := m.rowCount()
	if count == 0 {
		return m, nil
	}
	row := m.selected[m.currentView] + delta
	row = max(0, min(row, count-1))
	m.selected[m.currentView] = row
	m.updateDetailViewport()
	return m, m.probeSelectedCover()
}

// Run launches the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
