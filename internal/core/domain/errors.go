package domain

import "errors"

// Fixed messages below are part of the API contract and are emitted verbatim
// in error responses.
var (
	// ErrMissingURL: the request body carried no url field.
	ErrMissingURL = errors.New("Missing 'url' parameter in the request body.")
	// ErrInvalidURL: the url field failed watch-URL validation.
	ErrInvalidURL = errors.New("Invalid YouTube URL.")
	// ErrResolutionNotFound: no progressive mp4 stream matches the requested
	// resolution. Surfaced as 500, not 404, matching the source behavior.
	ErrResolutionNotFound = errors.New("Video with the specified resolution not found.")
)

// SessionError marks a failure while constructing or probing an extraction
// session, including bypass-credential failures. The underlying message is
// reported verbatim.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string { return e.Err.Error() }
func (e *SessionError) Unwrap() error { return e.Err }

// DownloadError marks a failure during the download call itself.
type DownloadError struct {
	Err error
}

func (e *DownloadError) Error() string { return e.Err.Error() }
func (e *DownloadError) Unwrap() error { return e.Err }
