package libcommon

import "errors"

var (
	// ErrSessionExpired is returned after the server answers 401. By then the
	// stored credentials are gone and a reload has been requested.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrNetwork replaces any transport failure; the cause is only logged.
	ErrNetwork = errors.New("network error, please check that the backend service is running")
)

const (
	fallbackRequestMessage = "request failed"
	fallbackUploadMessage  = "upload failed"
)

// APIError is an envelope whose code is not zero.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}
