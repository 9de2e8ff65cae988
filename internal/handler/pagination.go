package handler

import (
	"net/http"
	"strconv"

	"github.com/sakif/pastebin/internal/apperror"
)

// Pagination bounds. page is 1-indexed; page_size is capped so a caller
// cannot fetch the whole table in one request.
const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// Header names for the navigation links attached to every list response.
const (
	headerPreviousPage = "X-Previous-Page"
	headerNextPage     = "X-Next-Page"
)

// pageParams is a validated pair of pagination query parameters.
type pageParams struct {
	page     int
	pageSize int
}

// offset converts the 1-indexed page into the number of rows to skip.
func (p pageParams) offset() int {
	return (p.page - 1) * p.pageSize
}

// parsePageParams validates the page and page_size query parameters,
// applying defaults for absent ones. Both parameters are checked even when
// the first is already invalid, so a request with two bad values gets two
// field errors.
func parsePageParams(r *http.Request) (pageParams, error) {
	agg := &apperror.Aggregator{}
	query := r.URL.Query()

	page := parseBoundedInt(query.Get("page"), "page", defaultPage, 1, 0, agg)
	pageSize := parseBoundedInt(query.Get("page_size"), "page_size", defaultPageSize, 1, maxPageSize, agg)

	if err := agg.Err(); err != nil {
		return pageParams{}, err
	}
	return pageParams{page: page, pageSize: pageSize}, nil
}

// parseBoundedInt parses one query integer with a lower bound and an
// optional upper bound (max == 0 means unbounded above).
func parseBoundedInt(value, name string, def, min, max int, agg *apperror.Aggregator) int {
	if value == "" {
		return def
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		agg.Add(apperror.FieldError{
			Loc:  []string{"query", name},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		})
		return def
	}
	if n < min {
		agg.Add(apperror.FieldError{
			Loc:  []string{"query", name},
			Msg:  "ensure this value is greater than or equal to 1",
			Type: "value_error.number.not_ge",
		})
		return def
	}
	if max > 0 && n > max {
		agg.Add(apperror.FieldError{
			Loc:  []string{"query", name},
			Msg:  "ensure this value is less than or equal to 100",
			Type: "value_error.number.not_le",
		})
		return def
	}

	return n
}

// LinkBuilder constructs the absolute previous/next page URLs for list
// responses. When baseURL is empty the links are built from the incoming
// request's host, which is right for a single directly-exposed server;
// behind a proxy, configure PASTEBIN_BASE_URL.
type LinkBuilder struct {
	baseURL string
}

// NewLinkBuilder creates a LinkBuilder. baseURL, if non-empty, must look
// like "https://paste.example.com" (no trailing slash).
func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{baseURL: baseURL}
}

// WriteHeaders attaches X-Previous-Page and X-Next-Page to a list response.
//
// The previous link is empty exactly on the first page. The next link is
// empty exactly when fewer items than page_size came back — a full last
// page gets a next link to a page that will be empty, which is the correct
// terminal state, not an off-by-one.
//
// Both links reuse the request URL with only page and page_size replaced,
// so any other query parameters survive navigation.
func (b *LinkBuilder) WriteHeaders(w http.ResponseWriter, r *http.Request, params pageParams, count int) {
	previous := ""
	if params.offset() > 0 {
		previous = b.pageURL(r, params.page-1, params.pageSize)
	}
	next := ""
	if count >= params.pageSize {
		next = b.pageURL(r, params.page+1, params.pageSize)
	}

	w.Header().Set(headerPreviousPage, previous)
	w.Header().Set(headerNextPage, next)
}

func (b *LinkBuilder) pageURL(r *http.Request, page, pageSize int) string {
	u := *r.URL

	query := u.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = query.Encode()

	if b.baseURL != "" {
		return b.baseURL + u.Path + "?" + u.RawQuery
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + u.Path + "?" + u.RawQuery
}
