package domain

import (
	"strings"
	"time"
)

// VideoRequest is the JSON body accepted by every endpoint.
type VideoRequest struct {
	URL         string `json:"url"`
	Resolution  string `json:"resolution,omitempty"`
	PoToken     string `json:"po_token,omitempty"`
	VisitorData string `json:"visitor_data,omitempty"`
}

func (r VideoRequest) Credentials() BypassCredentials {
	return BypassCredentials{PoToken: r.PoToken, VisitorData: r.VisitorData}
}

// BypassCredentials are caller-supplied tokens that skip the platform's
// automated-client verification challenge. Both values are required for the
// credentials to take effect.
type BypassCredentials struct {
	PoToken     string
	VisitorData string
}

func (c BypassCredentials) Complete() bool {
	return c.PoToken != "" && c.VisitorData != ""
}

// VideoInfo passes the extraction library's metadata through verbatim.
// PublishDate serializes as an RFC 3339 string.
type VideoInfo struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Length      int64     `json:"length"` // seconds
	Views       int       `json:"views"`
	Description string    `json:"description"`
	PublishDate time.Time `json:"publish_date"`
}

// Stream is the adapter-neutral view of one library format. Progressive
// streams bundle audio and video in a single file; adaptive streams carry
// only one of the two. Resolution is the library's label (e.g. "720p") and
// is empty for audio-only streams.
type Stream struct {
	Itag        int
	MimeType    string
	Resolution  string
	Progressive bool
}

// IsMP4 matches both video/mp4 and audio/mp4 mime types.
func (s Stream) IsMP4() bool {
	return strings.Contains(s.MimeType, "mp4")
}

// ResolutionSet holds sorted, deduplicated resolution labels. Progressive is
// restricted to progressive mp4 streams; All covers every mp4 stream. Sort
// order is lexicographic on the label ("1080p" < "480p" < "720p"), preserved
// from the source behavior.
type ResolutionSet struct {
	Progressive []string `json:"progressive"`
	All         []string `json:"all"`
}
