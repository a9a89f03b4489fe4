package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tubegate/internal/core/domain"
	"tubegate/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	info    domain.VideoInfo
	streams []domain.Stream

	downloadErr    error
	downloadedInto string
	downloaded     *domain.Stream
}

func (f *fakeSession) Info() domain.VideoInfo { return f.info }

func (f *fakeSession) Streams() []domain.Stream { return f.streams }

func (f *fakeSession) Download(_ context.Context, stream domain.Stream, dir string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	f.downloadedInto = dir
	f.downloaded = &stream
	return filepath.Join(dir, "video.mp4"), nil
}

type fakeResolver struct {
	session   ports.Session
	err       error
	calls     int
	lastURL   string
	lastCreds domain.BypassCredentials
}

func (f *fakeResolver) Resolve(_ context.Context, url string, creds domain.BypassCredentials) (ports.Session, error) {
	f.calls++
	f.lastURL = url
	f.lastCreds = creds
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

const validURL = "https://www.youtube.com/watch?v=abc123"

func TestVideoInfoValidation(t *testing.T) {
	resolver := &fakeResolver{session: &fakeSession{}}
	svc := NewVideoService(resolver, t.TempDir())

	_, err := svc.VideoInfo(context.Background(), domain.VideoRequest{})
	assert.ErrorIs(t, err, domain.ErrMissingURL)

	_, err = svc.VideoInfo(context.Background(), domain.VideoRequest{URL: "https://youtu.be/abc123"})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	assert.Zero(t, resolver.calls, "resolver must not be reached on validation failure")
}

func TestVideoInfoPassthrough(t *testing.T) {
	published := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	resolver := &fakeResolver{session: &fakeSession{info: domain.VideoInfo{
		Title:       "T",
		Author:      "A",
		Length:      120,
		Views:       5,
		Description: "D",
		PublishDate: published,
	}}}
	svc := NewVideoService(resolver, t.TempDir())

	info, err := svc.VideoInfo(context.Background(), domain.VideoRequest{
		URL:         validURL,
		PoToken:     "po",
		VisitorData: "vd",
	})
	require.NoError(t, err)
	assert.Equal(t, "T", info.Title)
	assert.Equal(t, "A", info.Author)
	assert.Equal(t, int64(120), info.Length)
	assert.Equal(t, 5, info.Views)
	assert.Equal(t, "D", info.Description)
	assert.Equal(t, published, info.PublishDate)

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, validURL, resolver.lastURL)
	assert.Equal(t, domain.BypassCredentials{PoToken: "po", VisitorData: "vd"}, resolver.lastCreds)
}

func TestVideoInfoResolverFailure(t *testing.T) {
	sessionErr := &domain.SessionError{Err: errors.New("player response gave no answer")}
	resolver := &fakeResolver{err: sessionErr}
	svc := NewVideoService(resolver, t.TempDir())

	_, err := svc.VideoInfo(context.Background(), domain.VideoRequest{URL: validURL})
	assert.Equal(t, sessionErr, err)
}

func TestAvailableResolutions(t *testing.T) {
	resolver := &fakeResolver{session: &fakeSession{streams: []domain.Stream{
		{Itag: 22, MimeType: "video/mp4", Resolution: "720p", Progressive: true},
		{Itag: 18, MimeType: "video/mp4", Resolution: "720p", Progressive: true}, // duplicate label
		{Itag: 59, MimeType: "video/mp4", Resolution: "480p", Progressive: true},
		{Itag: 137, MimeType: "video/mp4", Resolution: "1080p", Progressive: false}, // adaptive mp4
		{Itag: 248, MimeType: "video/webm", Resolution: "1080p", Progressive: false},
		{Itag: 140, MimeType: "audio/mp4", Resolution: "", Progressive: false}, // no label
	}}}
	svc := NewVideoService(resolver, t.TempDir())

	set, err := svc.AvailableResolutions(context.Background(), domain.VideoRequest{URL: validURL})
	require.NoError(t, err)
	assert.Equal(t, []string{"480p", "720p"}, set.Progressive)
	assert.Equal(t, []string{"1080p", "480p", "720p"}, set.All, "labels sort lexicographically")
}

func TestAvailableResolutionsEmpty(t *testing.T) {
	resolver := &fakeResolver{session: &fakeSession{}}
	svc := NewVideoService(resolver, t.TempDir())

	set, err := svc.AvailableResolutions(context.Background(), domain.VideoRequest{URL: validURL})
	require.NoError(t, err)
	assert.NotNil(t, set.Progressive, "empty sets must serialize as [], not null")
	assert.NotNil(t, set.All)
	assert.Empty(t, set.Progressive)
	assert.Empty(t, set.All)
}

func TestDownload(t *testing.T) {
	sess := &fakeSession{streams: []domain.Stream{
		{Itag: 137, MimeType: "video/mp4", Resolution: "1080p", Progressive: false},
		{Itag: 22, MimeType: "video/mp4", Resolution: "720p", Progressive: true},
	}}
	resolver := &fakeResolver{session: sess}
	base := t.TempDir()
	svc := NewVideoService(resolver, base)

	err := svc.Download(context.Background(), domain.VideoRequest{URL: validURL}, "720p")
	require.NoError(t, err)

	wantDir := filepath.Join(base, "abc123")
	assert.Equal(t, wantDir, sess.downloadedInto, "output directory is derived from the video id")
	require.NotNil(t, sess.downloaded)
	assert.Equal(t, 22, sess.downloaded.Itag)

	// the per-video directory exists on disk
	fi, err := os.Stat(wantDir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestDownloadResolutionNotFound(t *testing.T) {
	sess := &fakeSession{streams: []domain.Stream{
		// 1080p exists, but only as an adaptive stream
		{Itag: 137, MimeType: "video/mp4", Resolution: "1080p", Progressive: false},
		{Itag: 22, MimeType: "video/mp4", Resolution: "720p", Progressive: true},
	}}
	resolver := &fakeResolver{session: sess}
	svc := NewVideoService(resolver, t.TempDir())

	err := svc.Download(context.Background(), domain.VideoRequest{URL: validURL}, "1080p")
	assert.ErrorIs(t, err, domain.ErrResolutionNotFound)
	assert.Nil(t, sess.downloaded)
}

func TestDownloadFailureWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	sess := &fakeSession{
		streams:     []domain.Stream{{Itag: 22, MimeType: "video/mp4", Resolution: "720p", Progressive: true}},
		downloadErr: cause,
	}
	resolver := &fakeResolver{session: sess}
	svc := NewVideoService(resolver, t.TempDir())

	err := svc.Download(context.Background(), domain.VideoRequest{URL: validURL}, "720p")
	var dlErr *domain.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, "connection reset", dlErr.Error(), "underlying message passes through verbatim")
}
