// Package library provides typed wrappers for the library API endpoints.
//
// # Overview
//
// Every call goes through a Requester, normally a *libcommon.Client, so auth,
// envelope decoding and session expiry behave the same everywhere. This
// package only knows paths, query parameters and payload shapes.
//
// # Endpoints
//
//   - POST /auth/login, GET /auth/me
//   - GET /books, GET /books/{id}, GET /categories
//   - POST /borrows, GET /borrows/my, POST /borrows/{id}/return, POST /borrows/{id}/renew
//   - GET /notifications, GET /notifications/unread-count
//   - PUT /notifications/{id}/read, PUT /notifications/read-all
//   - GET /announcements/latest
//   - POST /favorites/{bookId}, DELETE /favorites/{bookId}
//   - POST /files/upload (multipart field "file")
//
// # Paging
//
// Page is 1-based. The notifications endpoint answers with a 0-based page of
// a different shape; FetchNotifications converts it so callers see one type.
//
// # Timestamps
//
// Payload timestamps stay strings so they can be handed to
// libcommon.FormatTime unchanged. The Parsed* helpers accept RFC3339 and the
// server's zone-less local format, returning the zero time otherwise.
package library
