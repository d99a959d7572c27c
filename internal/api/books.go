package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mrlokans/mylib/internal/entities"
)

const (
	pathAllBooks      = "/api/v1/books/get/all"
	pathBookByID      = "/api/v1/books/get/byID/"
	pathKeywordSearch = "/api/v1/search/external/keyword"
	pathLibrary       = "/api/v1/books/get/library"
	pathWishlist      = "/api/v1/books/get/wishlist"
	pathAddLibrary    = "/api/v1/books/add/library"
	pathAddWishlist   = "/api/v1/books/add/wishlist"
	pathDelLibrary    = "/api/v1/books/delete/library/"
	pathDelWishlist   = "/api/v1/books/delete/wishlist/"
	pathUpdateRating  = "/api/v1/books/update/rating"
	pathUpdateStatus  = "/api/v1/books/update/status"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// pageQuery keeps startIndex before numResultsToGet; url.Values would sort them.
func pageQuery(startIndex, numResultsToGet int) string {
	return fmt.Sprintf("startIndex=%d&numResultsToGet=%d", startIndex, numResultsToGet)
}

// keywordQuery joins the words of kw with "+", one "+" per whitespace run.
func keywordQuery(kw string) string {
	parts := whitespaceRun.Split(kw, -1)
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, "+")
}

func (c *Client) getBookList(ctx context.Context, path, rawQuery string) (*entities.BookList, error) {
	var list entities.BookList
	if err := c.getJSON(ctx, path, rawQuery, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetAllBooks(ctx context.Context, startIndex, numResultsToGet int) (*entities.BookList, error) {
	return c.getBookList(ctx, pathAllBooks, pageQuery(startIndex, numResultsToGet))
}

func (c *Client) GetBookByID(ctx context.Context, bookID string) (*entities.Book, error) {
	var book entities.Book
	if err := c.getJSON(ctx, pathBookByID+url.PathEscape(bookID), "", &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) GetKeywordSearch(ctx context.Context, keywords string, startIndex, numResultsToGet int) (*entities.BookList, error) {
	query := "keywords=" + keywordQuery(keywords) + "&" + pageQuery(startIndex, numResultsToGet)
	return c.getBookList(ctx, pathKeywordSearch, query)
}

func (c *Client) GetLibrary(ctx context.Context, startIndex, numResultsToGet int) (*entities.BookList, error) {
	return c.getBookList(ctx, pathLibrary, pageQuery(startIndex, numResultsToGet))
}

func (c *Client) GetWishlist(ctx context.Context, startIndex, numResultsToGet int) (*entities.BookList, error) {
	return c.getBookList(ctx, pathWishlist, pageQuery(startIndex, numResultsToGet))
}

func (c *Client) AddBookToLibrary(ctx context.Context, bookID string) error {
	return c.exec(ctx, http.MethodPost, pathAddLibrary, entities.AddBookRequest{BookID: bookID})
}

func (c *Client) AddBookToWishlist(ctx context.Context, bookID string) error {
	return c.exec(ctx, http.MethodPost, pathAddWishlist, entities.AddBookRequest{BookID: bookID})
}

func (c *Client) DeleteBookFromLibrary(ctx context.Context, bookID string) error {
	return c.exec(ctx, http.MethodDelete, pathDelLibrary+url.PathEscape(bookID), nil)
}

func (c *Client) DeleteBookFromWishlist(ctx context.Context, bookID string) error {
	return c.exec(ctx, http.MethodDelete, pathDelWishlist+url.PathEscape(bookID), nil)
}

func (c *Client) UpdateRating(ctx context.Context, bookID string, rating int) error {
	return c.exec(ctx, http.MethodPut, pathUpdateRating, entities.ChangeRatingRequest{BookID: bookID, Rating: rating})
}

func (c *Client) UpdateStatus(ctx context.Context, bookID string, status entities.ReadingStatus) error {
	return c.exec(ctx, http.MethodPut, pathUpdateStatus, entities.ChangeReadingStatusRequest{BookID: bookID, Status: status})
}
