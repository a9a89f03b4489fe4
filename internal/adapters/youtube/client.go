package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tubegate/internal/core/domain"
	"tubegate/internal/core/ports"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

// clientIdentity names which platform client profile a session is negotiated
// as. Different identities have different bot-detection exposure.
type clientIdentity int

const (
	identityWeb clientIdentity = iota
	identityDefault
)

// identityMu serializes access to the library's package-level client switch.
var identityMu sync.Mutex

// withIdentity runs fn with the library's package-level client identity set
// to id, restoring the previous identity afterwards. Every library call that
// reads the identity must go through here: the library pins a pointer to the
// global, so an unguarded call would observe whatever identity a concurrent
// request last installed.
func withIdentity(id clientIdentity, fn func() error) error {
	identityMu.Lock()
	defer identityMu.Unlock()

	saved := youtube.DefaultClient
	defer func() { youtube.DefaultClient = saved }()
	if id == identityWeb {
		youtube.DefaultClient = youtube.WebClient
	}
	return fn()
}

type Resolver struct {
	timeout time.Duration
	log     *zap.Logger

	// probe is swapped out in tests.
	probe func(ctx context.Context, url string, creds domain.BypassCredentials, id clientIdentity) (*youtube.Video, *youtube.Client, error)
}

func NewResolver(timeout time.Duration, log *zap.Logger) *Resolver {
	r := &Resolver{
		timeout: timeout,
		log:     log,
	}
	r.probe = r.fetchVideo
	return r
}

// Resolve applies the two-tier client-selection policy:
//
//  1. With complete bypass credentials the WEB identity is used with the
//     credentials injected into the player request; its failure is final.
//  2. Otherwise WEB is tried first and, only on a bot-detection failure, the
//     library's default identity is tried once.
//
// The probe doubles as the metadata fetch, so the returned session answers
// info and stream queries without further round-trips.
func (r *Resolver) Resolve(ctx context.Context, url string, creds domain.BypassCredentials) (ports.Session, error) {
	if creds.Complete() {
		video, client, err := r.probe(ctx, url, creds, identityWeb)
		if err != nil {
			// The caller asserted the credentials should work; no fallback.
			return nil, &domain.SessionError{Err: err}
		}
		return &session{video: video, client: client, identity: identityWeb}, nil
	}

	video, client, err := r.probe(ctx, url, creds, identityWeb)
	if err == nil {
		return &session{video: video, client: client, identity: identityWeb}, nil
	}
	if !isBotDetection(err) {
		return nil, &domain.SessionError{Err: err}
	}

	r.log.Warn("bot detection on WEB client, falling back to default identity",
		zap.String("url", url),
		zap.Error(err))
	video, client, err = r.probe(ctx, url, creds, identityDefault)
	if err != nil {
		return nil, &domain.SessionError{Err: err}
	}
	return &session{video: video, client: client, identity: identityDefault}, nil
}

// fetchVideo constructs a client under the requested identity and probes it
// by fetching the video metadata.
func (r *Resolver) fetchVideo(ctx context.Context, url string, creds domain.BypassCredentials, id clientIdentity) (*youtube.Video, *youtube.Client, error) {
	client := &youtube.Client{HTTPClient: r.newHTTPClient(creds)}
	var video *youtube.Video
	err := withIdentity(id, func() error {
		var err error
		video, err = client.GetVideoContext(ctx, url)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return video, client, nil
}

func (r *Resolver) newHTTPClient(creds domain.BypassCredentials) *http.Client {
	hc := &http.Client{Timeout: r.timeout}
	if creds.Complete() {
		hc.Transport = newCredentialTransport(http.DefaultTransport, creds)
	}
	return hc
}

// isBotDetection classifies a probe failure as bot detection. The library
// exposes no structured error for this, so classification is a best-effort
// substring match on its message, isolated here so the heuristic can change
// without touching the fallback control flow.
func isBotDetection(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "bot")
}

// session holds the probed video, the client that fetched it, and the
// identity it was probed under. It lives for one request; the identity stays
// fixed for its lifetime.
type session struct {
	video    *youtube.Video
	client   *youtube.Client
	identity clientIdentity
}

func (s *session) Info() domain.VideoInfo {
	return domain.VideoInfo{
		Title:       s.video.Title,
		Author:      s.video.Author,
		Length:      int64(s.video.Duration / time.Second),
		Views:       s.video.Views,
		Description: s.video.Description,
		PublishDate: s.video.PublishDate,
	}
}

func (s *session) Streams() []domain.Stream {
	streams := make([]domain.Stream, 0, len(s.video.Formats))
	for _, f := range s.video.Formats {
		streams = append(streams, domain.Stream{
			Itag:       f.ItagNo,
			MimeType:   f.MimeType,
			Resolution: f.QualityLabel,
			// audio+video in one file, playable without muxing
			Progressive: f.AudioChannels > 0 && strings.HasPrefix(f.MimeType, "video/"),
		})
	}
	return streams
}

func (s *session) Download(ctx context.Context, stream domain.Stream, dir string) (string, error) {
	matches := s.video.Formats.Itag(stream.Itag)
	if len(matches) == 0 {
		return "", fmt.Errorf("itag %d not present in session formats", stream.Itag)
	}

	// Resolving the stream URL reads the package-level identity again, so the
	// session's identity is re-applied for the duration of the call.
	var rc io.ReadCloser
	err := withIdentity(s.identity, func() error {
		var err error
		rc, _, err = s.client.GetStreamContext(ctx, s.video, &matches[0])
		return err
	})
	if err != nil {
		return "", err
	}
	defer rc.Close()

	path := filepath.Join(dir, sanitizeFilename(s.video.Title)+".mp4")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "video"
	}
	return name
}
