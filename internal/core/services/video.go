package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"tubegate/internal/core/domain"
	"tubegate/internal/core/ports"
)

type videoService struct {
	resolver  ports.SessionResolver
	outputDir string
}

// NewVideoService wires the session resolver to the HTTP-facing operations.
// outputDir is the base directory downloads are written under; it is
// injected so tests can run without touching the real filesystem layout.
func NewVideoService(resolver ports.SessionResolver, outputDir string) ports.VideoService {
	return &videoService{
		resolver:  resolver,
		outputDir: outputDir,
	}
}

// resolve validates the request and obtains a fresh session for it.
func (s *videoService) resolve(ctx context.Context, req domain.VideoRequest) (ports.Session, error) {
	if req.URL == "" {
		return nil, domain.ErrMissingURL
	}
	if !domain.IsValidWatchURL(req.URL) {
		return nil, domain.ErrInvalidURL
	}
	return s.resolver.Resolve(ctx, req.URL, req.Credentials())
}

func (s *videoService) VideoInfo(ctx context.Context, req domain.VideoRequest) (*domain.VideoInfo, error) {
	sess, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	info := sess.Info()
	return &info, nil
}

func (s *videoService) AvailableResolutions(ctx context.Context, req domain.VideoRequest) (*domain.ResolutionSet, error) {
	sess, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	progressive := map[string]struct{}{}
	all := map[string]struct{}{}
	for _, st := range sess.Streams() {
		if !st.IsMP4() || st.Resolution == "" {
			continue
		}
		all[st.Resolution] = struct{}{}
		if st.Progressive {
			progressive[st.Resolution] = struct{}{}
		}
	}

	return &domain.ResolutionSet{
		Progressive: sortedLabels(progressive),
		All:         sortedLabels(all),
	}, nil
}

func (s *videoService) Download(ctx context.Context, req domain.VideoRequest, resolution string) error {
	sess, err := s.resolve(ctx, req)
	if err != nil {
		return err
	}

	var match *domain.Stream
	for _, st := range sess.Streams() {
		if st.Progressive && st.IsMP4() && st.Resolution == resolution {
			match = &st
			break
		}
	}
	if match == nil {
		return domain.ErrResolutionNotFound
	}

	// One directory per video id; repeated calls re-download into it.
	dir := filepath.Join(s.outputDir, domain.WatchURLVideoID(req.URL))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.DownloadError{Err: err}
	}
	if _, err := sess.Download(ctx, *match, dir); err != nil {
		return &domain.DownloadError{Err: err}
	}
	return nil
}

// sortedLabels returns the keys sorted lexicographically, so "1080p" sorts
// before "480p". Numeric ordering would be a behavior change.
func sortedLabels(set map[string]struct{}) []string {
	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
