package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/mrlokans/mylib/internal/entities"
)

type bookItem struct {
	book entities.Book
}

func (b bookItem) Title() string { return b.book.Title }

func (b bookItem) Description() string {
	parts := []string{b.book.AuthorLine()}
	if b.book.InLibrary {
		parts = append(parts, fmt.Sprintf("in library, %d/5", b.book.IndividualRating))
		if b.book.ReadingStatus != "" {
			parts = append(parts, b.book.ReadingStatus.Label())
		}
	}
	if b.book.OnWishlist {
		parts = append(parts, "on wishlist")
	}
	return strings.Join(parts, " · ")
}

func (b bookItem) FilterValue() string { return b.book.Title + " " + b.book.AuthorLine() }

func toItems(books []entities.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items
}

// bookDelegate draws each book on two lines: title, then authors and shelf state.
type bookDelegate struct {
	list.DefaultDelegate
}

func (d *bookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	b, ok := item.(bookItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 10 {
		width = 10
	}
	title := runewidth.Truncate(b.Title(), width, "…")
	desc := runewidth.Truncate(b.Description(), width, "…")
	if index == m.Index() {
		title = SelectedTitleStyle.Render(title)
		desc = SelectedDescStyle.Render(desc)
	} else {
		title = NormalTitleStyle.Render(title)
		desc = NormalDescStyle.Render(desc)
	}
	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func (d *bookDelegate) Height() int  { return 2 }
func (d *bookDelegate) Spacing() int { return 1 }

func (d *bookDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func newBookList() list.Model {
	l := list.New(nil, &bookDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
