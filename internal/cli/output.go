package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/pagination"
	"github.com/mrlokans/mylib/internal/views"
)

// Column widths of the book table, in terminal cells.
const (
	idWidth     = 14
	titleWidth  = 40
	authorWidth = 26

	descriptionWidth = 78
)

func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// shelfMarks shows membership as "LW", "L-", "-W" or "--".
func shelfMarks(b entities.Book) string {
	marks := []byte("--")
	if b.InLibrary {
		marks[0] = 'L'
	}
	if b.OnWishlist {
		marks[1] = 'W'
	}
	return string(marks)
}

func printBookList(out io.Writer, view views.View, snap pagination.Snapshot[*entities.BookList], keywords string) {
	title := view.Title
	if view.IsSearch() && keywords != "" {
		title = fmt.Sprintf("%s: %q", title, keywords)
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("=", runewidth.StringWidth(title)))

	var list *entities.BookList
	if snap.HasItems {
		list = snap.Items
	}
	if list == nil || len(list.Books) == 0 {
		fmt.Fprintln(out, "No books to show.")
		return
	}

	withShelf := view.Name == views.Library
	header := cell("ID", idWidth) + "  " + cell("TITLE", titleWidth) + "  " + cell("AUTHORS", authorWidth) + "  "
	if withShelf {
		header += "RATING  STATUS"
	} else {
		header += "SHELF"
	}
	fmt.Fprintln(out, strings.TrimRight(header, " "))

	for _, b := range list.Books {
		row := cell(b.BookID, idWidth) + "  " + cell(b.Title, titleWidth) + "  " + cell(b.AuthorLine(), authorWidth) + "  "
		if withShelf {
			row += fmt.Sprintf("%d / 5   %s", b.IndividualRating, b.ReadingStatus.Label())
		} else {
			row += shelfMarks(b)
		}
		fmt.Fprintln(out, strings.TrimRight(row, " "))
	}

	fmt.Fprintf(out, "\nPage %d of %d, %d per page, %d results", snap.CurrentPage, snap.TotalPages, snap.PageSize, list.NumResults)
	if list.SkippedBooks > 0 {
		fmt.Fprintf(out, " (%d skipped)", list.SkippedBooks)
	}
	fmt.Fprintln(out)
}

func printBook(out io.Writer, b *entities.Book) {
	fmt.Fprintln(out, b.Title)
	if b.Subtitle != "" {
		fmt.Fprintln(out, b.Subtitle)
	}
	fmt.Fprintln(out, strings.Repeat("=", runewidth.StringWidth(b.Title)))

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(out, "%-15s %s\n", name+":", value)
		}
	}
	field("ID", b.BookID)
	field("Authors", b.AuthorLine())
	field("Published", b.PublishDate)
	field("ISBN", strings.Join(b.ISBNs, ", "))
	field("Average rating", fmt.Sprintf("%.1f", b.AverageRating))
	if b.InLibrary {
		field("Your rating", fmt.Sprintf("%d / 5", b.IndividualRating))
		field("Status", b.ReadingStatus.Label())
	}
	field("Shelves", shelfLine(*b))

	if b.Description != "" {
		fmt.Fprintf(out, "\n%s\n", wordwrap.String(b.Description, descriptionWidth))
	}
}

func shelfLine(b entities.Book) string {
	var shelves []string
	if b.InLibrary {
		shelves = append(shelves, "library")
	}
	if b.OnWishlist {
		shelves = append(shelves, "wishlist")
	}
	if len(shelves) == 0 {
		return "none"
	}
	return strings.Join(shelves, ", ")
}
