package ports

import (
	"context"

	"tubegate/internal/core/domain"
)

type VideoService interface {
	VideoInfo(ctx context.Context, req domain.VideoRequest) (*domain.VideoInfo, error)
	AvailableResolutions(ctx context.Context, req domain.VideoRequest) (*domain.ResolutionSet, error)
	Download(ctx context.Context, req domain.VideoRequest, resolution string) error
}

// SessionResolver obtains an extraction session for one watch URL, applying
// the client-identity fallback policy. Sessions are request-scoped and never
// reused.
type SessionResolver interface {
	Resolve(ctx context.Context, url string, creds domain.BypassCredentials) (Session, error)
}

// Session is a resolved, probed handle onto the extraction library, scoped
// to a single video. Metadata and stream listings are served from the probe
// fetch; only Download performs further network I/O.
type Session interface {
	Info() domain.VideoInfo
	Streams() []domain.Stream
	// Download writes the given stream into dir and returns the file path.
	Download(ctx context.Context, stream domain.Stream, dir string) (string, error)
}
