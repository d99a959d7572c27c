package entities

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ReadingStatus string

const (
	ReadingStatusUnread  ReadingStatus = "UNREAD"
	ReadingStatusReading ReadingStatus = "READING"
	ReadingStatusRead    ReadingStatus = "READ"
)

// ReadingStatuses lists every status in display order.
var ReadingStatuses = []ReadingStatus{ReadingStatusUnread, ReadingStatusReading, ReadingStatusRead}

// ParseReadingStatus accepts a status in any letter case.
func ParseReadingStatus(s string) (ReadingStatus, error) {
	status := ReadingStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ReadingStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown reading status %q", s)
}

// Label is the status as shown to people, e.g. "Reading".
func (s ReadingStatus) Label() string {
	return cases.Title(language.English).String(strings.ToLower(string(s)))
}

// Book is a catalog entry as returned by the backend. It is a snapshot of a
// single fetch; changes go through the update endpoints, never local edits.
type Book struct {
	BookID           string        `json:"bookID"` // OpenLibrary ID, e.g. "OL9698350M"
	Title            string        `json:"title"`
	Subtitle         string        `json:"subtitle,omitempty"`
	Authors          []string      `json:"authors"`
	Description      string        `json:"description,omitempty"`
	ISBNs            []string      `json:"isbns,omitempty"`
	CoverURLSmall    string        `json:"coverURLSmall,omitempty"`
	CoverURLMedium   string        `json:"coverURLMedium,omitempty"`
	CoverURLLarge    string        `json:"coverURLLarge,omitempty"`
	PublishDate      string        `json:"publishDate,omitempty"`
	IndividualRating int           `json:"individualRating"`
	AverageRating    float64       `json:"averageRating"`
	ReadingStatus    ReadingStatus `json:"readingStatus,omitempty"`
	InLibrary        bool          `json:"bookIsInLibrary"`
	OnWishlist       bool          `json:"bookIsOnWishlist"`
}

// AuthorLine joins the author list for display.
func (b Book) AuthorLine() string {
	return strings.Join(b.Authors, ", ")
}

// BookList is the paginated result envelope used by every list endpoint.
type BookList struct {
	NumResults   int    `json:"numResults"`
	StartIndex   int    `json:"startIndex"`
	SkippedBooks int    `json:"skippedBooks"` // dropped by the backend for incomplete data
	Books        []Book `json:"books"`
}

// ResultCount reports the total number of matches across all pages.
func (l *BookList) ResultCount() int {
	if l == nil {
		return 0
	}
	return l.NumResults
}

// EmptyBookList returns the zero-result placeholder shown before anything is fetched.
func EmptyBookList() *BookList {
	return &BookList{Books: []Book{}}
}

// Request bodies sent to the backend.
type (
	AuthRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	AddBookRequest struct {
		BookID string `json:"bookID"`
	}

	ChangeRatingRequest struct {
		BookID string `json:"bookID"`
		Rating int    `json:"rating"`
	}

	ChangeReadingStatusRequest struct {
		BookID string        `json:"bookID"`
		Status ReadingStatus `json:"status"`
	}
)
