// Package tui is the interactive terminal browser over the book lists. It
// drives the same paginated lists, position storage and action dispatcher as
// the web frontend and the one-shot CLI commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/mylib/internal/actions"
	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/pagestate"
	"github.com/mrlokans/mylib/internal/pagination"
	"github.com/mrlokans/mylib/internal/session"
	"github.com/mrlokans/mylib/internal/storage"
	"github.com/mrlokans/mylib/internal/views"
)

var ErrNotLoggedIn = errors.New("log in to browse this list")

// Deps are the profile services the browser works with.
type Deps struct {
	Client  *api.Client
	Session storage.Store // list positions and the last search
	User    *session.Store
	Nav     *pagestate.Navigator
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeDetail
)

type (
	snapshotMsg struct {
		list   *views.BookList
		snap   pagination.Snapshot[*entities.BookList]
		status string
	}

	detailMsg struct {
		book *entities.Book
		err  string
	}
)

type Model struct {
	ctx  context.Context
	deps Deps

	view     views.View
	books    *views.BookList
	binding  *pagestate.Binding
	keywords string
	snap     pagination.Snapshot[*entities.BookList]

	items  list.Model
	search textinput.Model
	mode   mode
	detail *entities.Book
	status string

	width  int
	height int
}

// New opens the browser on the named view.
func New(ctx context.Context, deps Deps, viewName string) (Model, error) {
	view, ok := views.Find(viewName)
	if !ok {
		return Model{}, fmt.Errorf("unknown list %q", viewName)
	}
	if view.RequireLogin && !deps.User.State().IsAuthenticated {
		return Model{}, ErrNotLoggedIn
	}

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.PromptStyle = PromptStyle
	ti.CharLimit = 100
	ti.Width = 40

	m := Model{
		ctx:    ctx,
		deps:   deps,
		items:  newBookList(),
		search: ti,
	}
	m.bind(view)
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.mount()
}

// bind makes view current with a fresh list bound to its stored position.
func (m *Model) bind(view views.View) {
	if m.binding != nil {
		m.binding.Close()
	}
	m.deps.Nav.Enter(view.Name)
	opts, _ := m.deps.Nav.Options(view.Name)

	m.view = view
	m.books = view.NewList(m.deps.Client)
	m.binding = pagestate.Bind(m.books, m.deps.Session, opts)
	m.snap = m.books.Snapshot()
	m.items.SetItems(nil)
	m.mode = modeList
	m.detail = nil

	m.keywords = ""
	if view.IsSearch() {
		m.keywords, _ = m.deps.Session.Get(views.SearchKeywordsKey)
	}
}

// mount restores the list's position and loads it.
func (m Model) mount() tea.Cmd {
	ctx, view, books, binding, keywords := m.ctx, m.view, m.books, m.binding, m.keywords
	return func() tea.Msg {
		binding.Mount(func() {
			view.Load(ctx, books, keywords)
		})
		return snapshotMsg{list: books, snap: books.Snapshot()}
	}
}

// onList runs fn against the current list and reports its state afterwards.
func (m Model) onList(fn func(ctx context.Context, books *views.BookList)) tea.Cmd {
	ctx, books := m.ctx, m.books
	return func() tea.Msg {
		fn(ctx, books)
		return snapshotMsg{list: books, snap: books.Snapshot()}
	}
}

func (m Model) setPageSize(size int) tea.Cmd {
	ctx, books := m.ctx, m.books
	return func() tea.Msg {
		msg := snapshotMsg{list: books}
		if err := books.SetPageSize(ctx, size); err != nil {
			msg.status = err.Error()
		}
		msg.snap = books.Snapshot()
		return msg
	}
}

func (m Model) fetchBook(bookID string) tea.Cmd {
	ctx, client := m.ctx, m.deps.Client
	return func() tea.Msg {
		book, err := client.GetBookByID(ctx, bookID)
		if err != nil {
			return detailMsg{err: pagination.ErrorMessage(err)}
		}
		return detailMsg{book: book}
	}
}

// dispatch runs one book action. On the list the outcome lands in the list's
// error field and the page reloads; on the detail view the book is fetched again.
func (m Model) dispatch(act func(ctx context.Context, d *actions.Dispatcher)) tea.Cmd {
	ctx, client := m.ctx, m.deps.Client

	if m.mode == modeDetail && m.detail != nil {
		bookID := m.detail.BookID
		return func() tea.Msg {
			sink := &errorSink{}
			var refreshed *entities.Book
			reload := func(ctx context.Context, _ ...string) error {
				book, err := client.GetBookByID(ctx, bookID)
				refreshed = book
				return err
			}
			act(ctx, actions.New(client, sink, reload, nil))
			return detailMsg{book: refreshed, err: sink.msg}
		}
	}

	books := m.books
	var keywords func() string
	if m.view.IsSearch() {
		kw := m.keywords
		keywords = func() string { return kw }
	}
	return func() tea.Msg {
		act(ctx, actions.New(client, books, actions.ReloadList(books), keywords))
		return snapshotMsg{list: books, snap: books.Snapshot()}
	}
}

type errorSink struct {
	msg string
}

func (s *errorSink) SetError(msg string) { s.msg = msg }
func (s *errorSink) ClearError()         { s.msg = "" }

func (m Model) selected() (entities.Book, bool) {
	item, ok := m.items.SelectedItem().(bookItem)
	if !ok {
		return entities.Book{}, false
	}
	return item.book, true
}

// current is the book the shelf keys act on.
func (m Model) current() (entities.Book, bool) {
	if m.mode == modeDetail {
		if m.detail == nil {
			return entities.Book{}, false
		}
		return *m.detail, true
	}
	return m.selected()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.items.SetSize(msg.Width-4, max(msg.Height-9, 4))
		return m, nil

	case snapshotMsg:
		if msg.list != m.books {
			return m, nil
		}
		if msg.snap.CurrentPage != m.snap.CurrentPage || msg.snap.PageSize != m.snap.PageSize {
			m.items.ResetSelected()
		}
		m.snap = msg.snap
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.snap.HasItems && msg.snap.Items != nil {
			m.items.SetItems(toItems(msg.snap.Items.Books))
		}
		return m, nil

	case detailMsg:
		if m.mode != modeDetail {
			return m, nil
		}
		if msg.book != nil {
			m.detail = msg.book
		}
		m.status = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.binding != nil {
		m.binding.Close()
	}
	return m, tea.Quit
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()

	case "n":
		return m, m.onList(func(ctx context.Context, books *views.BookList) { books.NextPage(ctx) })

	case "p":
		return m, m.onList(func(ctx context.Context, books *views.BookList) { books.PrevPage(ctx) })

	case "+", "-":
		size, ok := stepPageSize(m.books.PageSize(), msg.String() == "+")
		if !ok {
			return m, nil
		}
		return m, m.setPageSize(size)

	case "enter":
		book, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.deps.Nav.Enter(views.Book)
		m.mode = modeDetail
		m.detail = &book
		return m, m.fetchBook(book.BookID)

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.keywords)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd

	case "tab":
		next, ok := m.nextView()
		if !ok {
			return m, nil
		}
		m.bind(next)
		return m, m.mount()

	case "a", "w", "d":
		return m.shelfKey(msg.String())
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "esc":
		m.mode = modeList
		m.search.Blur()
		return m, nil

	case "enter":
		m.search.Blur()
		m.mode = modeList
		keywords, changed := views.ResolveKeywords(m.deps.Session, m.search.Value(), true)

		if !m.view.IsSearch() {
			search, _ := views.Find(views.Search)
			m.bind(search)
			return m, m.mount()
		}
		m.keywords = keywords
		view := m.view
		return m, m.onList(func(ctx context.Context, books *views.BookList) {
			if changed {
				books.SetPagination(1, books.PageSize())
			}
			view.Load(ctx, books, keywords)
		})
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m.quit()

	case "esc", "backspace":
		m.deps.Nav.Enter(m.view.Name)
		m.mode = modeList
		m.detail = nil
		m.status = ""
		view, keywords := m.view, m.keywords
		return m, m.onList(func(ctx context.Context, books *views.BookList) {
			view.Load(ctx, books, keywords)
		})

	case "a", "w", "d":
		return m.shelfKey(key)

	case "1", "2", "3", "4", "5":
		book, ok := m.current()
		if !ok || !book.InLibrary {
			m.status = "Only books in your library can be rated"
			return m, nil
		}
		rating := int(key[0] - '0')
		return m, m.dispatch(func(ctx context.Context, d *actions.Dispatcher) {
			d.OnRate(ctx, book.BookID, rating)
		})

	case "s":
		book, ok := m.current()
		if !ok || !book.InLibrary {
			m.status = "Only books in your library have a reading status"
			return m, nil
		}
		status := nextStatus(book.ReadingStatus)
		return m, m.dispatch(func(ctx context.Context, d *actions.Dispatcher) {
			d.OnSetStatus(ctx, book.BookID, status)
		})
	}
	return m, nil
}

func (m Model) shelfKey(key string) (tea.Model, tea.Cmd) {
	book, ok := m.current()
	if !ok {
		return m, nil
	}
	if !m.deps.User.State().IsAuthenticated {
		m.status = "Log in to change your shelves"
		return m, nil
	}

	switch key {
	case "a":
		return m, m.dispatch(func(ctx context.Context, d *actions.Dispatcher) {
			d.OnAddToLibrary(ctx, book.BookID)
		})
	case "w":
		return m, m.dispatch(func(ctx context.Context, d *actions.Dispatcher) {
			d.OnAddToWishlist(ctx, book.BookID)
		})
	}

	// d removes from the shelf being browsed, or from whichever shelf holds the book.
	fromWishlist := m.view.Name == views.Wishlist ||
		(m.view.Name != views.Library && !book.InLibrary && book.OnWishlist)
	return m, m.dispatch(func(ctx context.Context, d *actions.Dispatcher) {
		if fromWishlist {
			d.OnDeleteFromWishlist(ctx, book.BookID)
		} else {
			d.OnDeleteFromLibrary(ctx, book.BookID)
		}
	})
}

// nextView cycles through the lists, skipping those that need a login.
func (m Model) nextView() (views.View, bool) {
	loggedIn := m.deps.User.State().IsAuthenticated
	start := slices.IndexFunc(views.Lists, func(v views.View) bool { return v.Name == m.view.Name })
	for i := 1; i < len(views.Lists); i++ {
		v := views.Lists[(start+i)%len(views.Lists)]
		if !v.RequireLogin || loggedIn {
			return v, true
		}
	}
	return views.View{}, false
}

func stepPageSize(current int, up bool) (int, bool) {
	i := slices.Index(pagination.PageSizes, current)
	if up {
		i++
	} else {
		i--
	}
	if i < 0 || i >= len(pagination.PageSizes) {
		return 0, false
	}
	return pagination.PageSizes[i], true
}

func nextStatus(s entities.ReadingStatus) entities.ReadingStatus {
	i := slices.Index(entities.ReadingStatuses, s)
	return entities.ReadingStatuses[(i+1)%len(entities.ReadingStatuses)]
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n")

	switch m.mode {
	case modeDetail:
		b.WriteString(m.detailView())
		if m.status != "" {
			b.WriteString("\n" + ErrorStyle.Render(m.status))
		}
		b.WriteString("\n" + HelpStyle.Render("esc back · a library · w wishlist · d remove · 1-5 rate · s status · q quit"))
		return b.String()

	case modeSearch:
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.listView())
	return b.String()
}

func (m Model) tabs() string {
	var tabs []string
	for _, v := range views.Lists {
		if v.Name == m.view.Name {
			tabs = append(tabs, ActiveTabStyle.Render(v.Title))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(v.Title))
		}
	}
	return TabsRow.Render(gloss.JoinHorizontal(gloss.Top, tabs...))
}

func (m Model) listView() string {
	var b strings.Builder

	switch {
	case m.snap.Loading && !m.snap.HasItems:
		b.WriteString(ContentStyle.Render("Loading…"))
	case m.view.IsSearch() && m.keywords == "":
		b.WriteString(ContentStyle.Render("Press / to search the catalog."))
	case len(m.items.Items()) == 0:
		b.WriteString(ContentStyle.Render("No books to show."))
	default:
		b.WriteString(m.items.View())
	}

	results := 0
	if m.snap.Items != nil {
		results = m.snap.Items.NumResults
	}
	status := fmt.Sprintf("Page %d of %d · %d per page · %d results", m.snap.CurrentPage, m.snap.TotalPages, m.snap.PageSize, results)
	if m.view.IsSearch() && m.keywords != "" {
		status = fmt.Sprintf("%q · %s", m.keywords, status)
	}
	b.WriteString("\n" + StatusStyle.Render(status))

	if msg := firstNonEmpty(m.snap.Error, m.status); msg != "" {
		b.WriteString("\n" + ErrorStyle.Render(msg))
	}
	b.WriteString("\n" + HelpStyle.Render("n/p page · +/- size · enter open · a library · w wishlist · d remove · / search · tab list · q quit"))
	return b.String()
}

func (m Model) detailView() string {
	book := m.detail
	if book == nil {
		return ContentStyle.Render("Loading…")
	}

	var lines []string
	lines = append(lines, DetailTitleStyle.Render(book.Title))
	if book.Subtitle != "" {
		lines = append(lines, book.Subtitle)
	}
	lines = append(lines, "")

	field := func(label, value string) {
		if value != "" {
			lines = append(lines, DetailLabelStyle.Render(label)+value)
		}
	}
	field("Authors", book.AuthorLine())
	field("Published", book.PublishDate)
	field("ISBN", strings.Join(book.ISBNs, ", "))
	field("Average rating", fmt.Sprintf("%.1f", book.AverageRating))
	if book.InLibrary {
		field("Your rating", fmt.Sprintf("%d / 5", book.IndividualRating))
		field("Status", book.ReadingStatus.Label())
	}
	field("Shelves", shelves(*book))

	if book.Description != "" {
		width := m.width - 6
		if width < 20 {
			width = 60
		}
		lines = append(lines, "", gloss.NewStyle().Width(width).Render(book.Description))
	}
	return ContentStyle.Render(strings.Join(lines, "\n"))
}

func shelves(b entities.Book) string {
	var names []string
	if b.InLibrary {
		names = append(names, "library")
	}
	if b.OnWishlist {
		names = append(names, "wishlist")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
