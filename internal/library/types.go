package library

import (
	"strings"
	"time"
)

// Zone-less layouts used by the server for LocalDateTime and LocalDate.
const (
	localDateTimeLayout = "2006-01-02T15:04:05.999999999"
	localDateLayout     = time.DateOnly
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the signed-in user.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
	User      User   `json:"user"`
}

// User mirrors the account payload stored in the user-info slot.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	RealName  string `json:"realName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Status    int    `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// DisplayName prefers the real name.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.RealName); name != "" {
		return name
	}
	return u.Username
}

// IsStaff reports whether the role may use the admin screens.
func (u User) IsStaff() bool {
	switch strings.ToUpper(u.Role) {
	case "ADMIN", "LIBRARIAN":
		return true
	}
	return false
}

// Book describes a catalog entry.
type Book struct {
	ID             int64   `json:"id"`
	ISBN           string  `json:"isbn"`
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	Publisher      string  `json:"publisher"`
	PublishDate    string  `json:"publishDate"`
	CategoryID     int64   `json:"categoryId"`
	CategoryName   string  `json:"categoryName"`
	Price          float64 `json:"price"`
	TotalCount     int     `json:"totalCount"`
	AvailableCount int     `json:"availableCount"`
	Description    string  `json:"description"`
	CoverURL       string  `json:"coverUrl"`
	Location       string  `json:"location"`
	Status         int     `json:"status"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// Available reports whether at least one copy can be borrowed.
func (b Book) Available() bool { return b.AvailableCount > 0 }

// ParsedPublishDate returns the publish date, or the zero time.
func (b Book) ParsedPublishDate() time.Time { return parseTime(b.PublishDate) }

// Category is a node of the catalog tree.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    int64      `json:"parentId"`
	ParentName  string     `json:"parentName"`
	SortOrder   int        `json:"sortOrder"`
	BookCount   int        `json:"bookCount"`
	Children    []Category `json:"children"`
	CreatedAt   string     `json:"createdAt"`
}

// BookQuery filters GET /books. Zero fields are omitted.
type BookQuery struct {
	Keyword    string
	CategoryID int64
	Status     *int
	Page       int
	Size       int
}

// BorrowRequest is the body of POST /borrows.
type BorrowRequest struct {
	BookID int64 `json:"bookId"`
	Days   int   `json:"days"`
}

// Loan is a borrow record.
type Loan struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	Username      string  `json:"username"`
	RealName      string  `json:"realName"`
	BookID        int64   `json:"bookId"`
	BookTitle     string  `json:"bookTitle"`
	BookISBN      string  `json:"bookIsbn"`
	BookAuthor    string  `json:"bookAuthor"`
	BookCoverURL  string  `json:"bookCoverUrl"`
	BorrowDate    string  `json:"borrowDate"`
	DueDate       string  `json:"dueDate"`
	ReturnDate    string  `json:"returnDate"`
	Status        int     `json:"status"`
	StatusDesc    string  `json:"statusDesc"`
	Remark        string  `json:"remark"`
	Overdue       bool    `json:"overdue"`
	CreatedAt     string  `json:"createdAt"`
	RenewCount    int     `json:"renewCount"`
	CanRenew      bool    `json:"canRenew"`
	MaxRenewCount int     `json:"maxRenewCount"`
	OverdueDays   int     `json:"overdueDays"`
	FineAmount    float64 `json:"fineAmount"`
	FinePaid      bool    `json:"finePaid"`
}

// Returned reports whether the book has been handed back.
func (l Loan) Returned() bool { return strings.TrimSpace(l.ReturnDate) != "" }

// ParsedDueDate returns the due date, or the zero time.
func (l Loan) ParsedDueDate() time.Time { return parseTime(l.DueDate) }

// DueIn is the time left until the due date; negative once overdue.
func (l Loan) DueIn(now time.Time) time.Duration {
	due := l.ParsedDueDate()
	if due.IsZero() {
		return 0
	}
	return due.Sub(now)
}

// Notification is a message addressed to the current user.
type Notification struct {
	ID             int64  `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	IsRead         bool   `json:"isRead"`
	BorrowRecordID int64  `json:"borrowRecordId"`
	CreatedAt      string `json:"createdAt"`
}

// Announcement is a library-wide notice.
type Announcement struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Type          string `json:"type"`
	TypeDesc      string `json:"typeDesc"`
	Pinned        bool   `json:"pinned"`
	Status        int    `json:"status"`
	StatusDesc    string `json:"statusDesc"`
	PublisherID   int64  `json:"publisherId"`
	PublisherName string `json:"publisherName"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// Favorite is a bookmarked book.
type Favorite struct {
	ID           int64  `json:"id"`
	BookID       int64  `json:"bookId"`
	BookTitle    string `json:"bookTitle"`
	BookAuthor   string `json:"bookAuthor"`
	BookCoverURL string `json:"bookCoverUrl"`
	CategoryName string `json:"categoryName"`
	CreatedAt    string `json:"createdAt"`
	Remark       string `json:"remark"`
}

// UploadResult is returned by POST /files/upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Page is a 1-based page of results.
type Page[T any] struct {
	List       []T   `json:"list"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// springPage is the 0-based page shape some endpoints return unconverted.
type springPage[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func (p springPage[T]) page() Page[T] {
	return Page[T]{
		List:       p.Content,
		Total:      p.TotalElements,
		Page:       p.Number + 1,
		Size:       p.Size,
		TotalPages: p.TotalPages,
	}
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	for _, layout := range []string{localDateTimeLayout, localDateLayout} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
