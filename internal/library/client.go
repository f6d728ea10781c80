package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/five82/shelf/internal/libcommon"
)

const (
	defaultPageSize    = 10
	defaultBorrowDays  = 30
	defaultLatestLimit = 5
)

// Requester is the subset of *libcommon.Client the wrappers use.
type Requester interface {
	Get(ctx context.Context, path string, params libcommon.Params, out any) error
	Post(ctx context.Context, path string, data, out any) error
	Put(ctx context.Context, path string, data, out any) error
	Delete(ctx context.Context, path string, out any) error
	UploadFile(ctx context.Context, path, filename string, r io.Reader, out any) error
}

var _ Requester = (*libcommon.Client)(nil)

// Fetcher is the read side polled by the app. It is implemented by *Client and
// can be faked in tests.
type Fetcher interface {
	CurrentUser(ctx context.Context) (*User, error)
	FetchBooks(ctx context.Context, query BookQuery) (Page[Book], error)
	FetchMyLoans(ctx context.Context, page, size int) (Page[Loan], error)
	FetchNotifications(ctx context.Context, page, size int) (Page[Notification], error)
	FetchUnreadCount(ctx context.Context) (int64, error)
	FetchLatestAnnouncements(ctx context.Context, limit int) ([]Announcement, error)
}

var _ Fetcher = (*Client)(nil)

// Client exposes the library endpoints with typed payloads.
type Client struct {
	api Requester
}

// NewClient wraps api.
func NewClient(api Requester) *Client {
	return &Client{api: api}
}

// Login exchanges credentials for a token. Storing it is the caller's job.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	var payload LoginResponse
	if err := c.api.Post(ctx, "/auth/login", LoginRequest{Username: username, Password: password}, &payload); err != nil {
		return nil, err
	}
	if payload.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &payload, nil
}

// CurrentUser returns the account behind the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var payload User
	if err := c.api.Get(ctx, "/auth/me", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchBooks searches the catalog.
func (c *Client) FetchBooks(ctx context.Context, query BookQuery) (Page[Book], error) {
	params := libcommon.Params{
		"page": positiveOr(query.Page, 1),
		"size": positiveOr(query.Size, defaultPageSize),
	}
	if kw := strings.TrimSpace(query.Keyword); kw != "" {
		params["keyword"] = kw
	}
	if query.CategoryID > 0 {
		params["categoryId"] = query.CategoryID
	}
	if query.Status != nil {
		params["status"] = *query.Status
	}
	var payload Page[Book]
	if err := c.api.Get(ctx, "/books", params, &payload); err != nil {
		return Page[Book]{}, err
	}
	return payload, nil
}

// FetchBook returns one catalog entry.
func (c *Client) FetchBook(ctx context.Context, id int64) (*Book, error) {
	if id <= 0 {
		return nil, fmt.Errorf("book id required")
	}
	var payload Book
	if err := c.api.Get(ctx, "/books/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchCategories lists every category.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var payload []Category
	if err := c.api.Get(ctx, "/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Borrow lends a copy of bookID for days (30 when not positive).
func (c *Client) Borrow(ctx context.Context, bookID int64, days int) (*Loan, error) {
	if bookID <= 0 {
		return nil, fmt.Errorf("book id required")
	}
	body := BorrowRequest{BookID: bookID, Days: positiveOr(days, defaultBorrowDays)}
	var payload Loan
	if err := c.api.Post(ctx, "/borrows", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchMyLoans lists the current user's borrow records, newest first.
func (c *Client) FetchMyLoans(ctx context.Context, page, size int) (Page[Loan], error) {
	params := libcommon.Params{
		"page": positiveOr(page, 1),
		"size": positiveOr(size, defaultPageSize),
	}
	var payload Page[Loan]
	if err := c.api.Get(ctx, "/borrows/my", params, &payload); err != nil {
		return Page[Loan]{}, err
	}
	return payload, nil
}

// ReturnLoan hands a borrowed book back.
func (c *Client) ReturnLoan(ctx context.Context, loanID int64) (*Loan, error) {
	return c.loanAction(ctx, loanID, "return")
}

// RenewLoan extends the due date when the record allows it.
func (c *Client) RenewLoan(ctx context.Context, loanID int64) (*Loan, error) {
	return c.loanAction(ctx, loanID, "renew")
}

func (c *Client) loanAction(ctx context.Context, loanID int64, action string) (*Loan, error) {
	if loanID <= 0 {
		return nil, fmt.Errorf("loan id required")
	}
	var payload Loan
	path := "/borrows/" + strconv.FormatInt(loanID, 10) + "/" + action
	if err := c.api.Post(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchNotifications returns a 1-based page of notifications. The endpoint
// itself counts pages from 0.
func (c *Client) FetchNotifications(ctx context.Context, page, size int) (Page[Notification], error) {
	params := libcommon.Params{
		"page": positiveOr(page, 1) - 1,
		"size": positiveOr(size, defaultPageSize),
	}
	var payload springPage[Notification]
	if err := c.api.Get(ctx, "/notifications", params, &payload); err != nil {
		return Page[Notification]{}, err
	}
	return payload.page(), nil
}

// FetchUnreadCount returns the number of unread notifications.
func (c *Client) FetchUnreadCount(ctx context.Context) (int64, error) {
	var payload struct {
		Count int64 `json:"count"`
	}
	if err := c.api.Get(ctx, "/notifications/unread-count", nil, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// MarkRead flags one notification as read.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("notification id required")
	}
	return c.api.Put(ctx, "/notifications/"+strconv.FormatInt(id, 10)+"/read", nil, nil)
}

// MarkAllRead flags every notification as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.api.Put(ctx, "/notifications/read-all", nil, nil)
}

// FetchLatestAnnouncements returns up to limit published announcements
// (5 when not positive).
func (c *Client) FetchLatestAnnouncements(ctx context.Context, limit int) ([]Announcement, error) {
	params := libcommon.Params{"limit": positiveOr(limit, defaultLatestLimit)}
	var payload []Announcement
	if err := c.api.Get(ctx, "/announcements/latest", params, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AddFavorite bookmarks a book.
func (c *Client) AddFavorite(ctx context.Context, bookID int64) (*Favorite, error) {
	if bookID <= 0 {
		return nil, fmt.Errorf("book id required")
	}
	var payload Favorite
	if err := c.api.Post(ctx, "/favorites/"+strconv.FormatInt(bookID, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RemoveFavorite drops a bookmark.
func (c *Client) RemoveFavorite(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return fmt.Errorf("book id required")
	}
	return c.api.Delete(ctx, "/favorites/"+strconv.FormatInt(bookID, 10), nil)
}

// Upload stores a file (typically a cover image) and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var payload UploadResult
	if err := c.api.UploadFile(ctx, "/files/upload", filename, r, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
