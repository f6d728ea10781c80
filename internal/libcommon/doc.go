// Package libcommon holds the helpers every shelf screen shares when talking
// to the library API.
//
// # Overview
//
// Three leaf utilities live here:
//
//   - HandleImgError: swaps a broken image for a placeholder, once
//   - FormatTime / TimeFormatter: renders timestamps as "5 minutes ago"
//   - NewHTTPClient: an API client with bearer auth and envelope decoding
//
// # Response Envelope
//
// Every endpoint answers with
//
//	{"code": 0, "message": "ok", "data": {...}}
//
// A code of exactly 0 is success and data is decoded into the caller's value.
// Anything else becomes an *APIError carrying the server message, or
// "request failed" ("upload failed" for uploads) when the message is empty.
//
// # Session Expiry
//
// An HTTP 401 removes both credential slots from Storage, asks the Navigator
// to reload and returns ErrSessionExpired. The body is decoded before the
// status is inspected, so a 401 that is not JSON surfaces as a decode error
// and leaves the slots alone.
//
// # Error Handling
//
//   - ErrSessionExpired: HTTP 401
//   - *APIError: envelope code other than 0 (use errors.As)
//   - ErrNetwork: any transport failure; the cause is logged at debug only
//   - context errors: returned as-is when the caller's context ends
//   - JSON errors: returned unwrapped
//
// # Usage Example
//
//	client := libcommon.NewHTTPClient(libcommon.DefaultConfig(), "library_token", "library_user", libcommon.Env{
//		Storage:   store,
//		Navigator: reloads,
//	})
//
//	var book library.Book
//	if err := client.Get(ctx, "/books/7", nil, &book); err != nil {
//		return err
//	}
//
// # Thread Safety
//
// Client keeps no mutable state of its own and is safe for concurrent use.
// Concurrent 401s may each clear storage and each call Reload.
package libcommon
