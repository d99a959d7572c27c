package api

import (
	"context"
	"strings"

	"github.com/mrlokans/mylib/internal/entities"
)

// Page fetchers share the signature of a paginated list's fetch function.
// The optional string argument is only used by SearchPage, as the keywords.

func (c *Client) AllBooksPage(ctx context.Context, startIndex, pageSize int, _ ...string) (*entities.BookList, error) {
	return c.GetAllBooks(ctx, startIndex, pageSize)
}

func (c *Client) LibraryPage(ctx context.Context, startIndex, pageSize int, _ ...string) (*entities.BookList, error) {
	return c.GetLibrary(ctx, startIndex, pageSize)
}

func (c *Client) WishlistPage(ctx context.Context, startIndex, pageSize int, _ ...string) (*entities.BookList, error) {
	return c.GetWishlist(ctx, startIndex, pageSize)
}

// SearchPage returns an empty list without calling the backend when no
// keywords were given.
func (c *Client) SearchPage(ctx context.Context, startIndex, pageSize int, keywords ...string) (*entities.BookList, error) {
	if len(keywords) == 0 || strings.TrimSpace(keywords[0]) == "" {
		return entities.EmptyBookList(), nil
	}
	return c.GetKeywordSearch(ctx, keywords[0], startIndex, pageSize)
}
