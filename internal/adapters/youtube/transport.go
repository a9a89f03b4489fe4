package youtube

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"tubegate/internal/core/domain"
)

const playerPath = "/youtubei/v1/player"

// credentialTransport injects caller-supplied bypass credentials into
// innertube player requests before they leave the process: visitorData goes
// into the client context, poToken into serviceIntegrityDimensions. The
// extraction library exposes no API for either, so the rewrite happens at
// the HTTP boundary it already lets us own. All other requests pass through
// untouched.
type credentialTransport struct {
	base        http.RoundTripper
	poToken     string
	visitorData string
}

func newCredentialTransport(base http.RoundTripper, creds domain.BypassCredentials) *credentialTransport {
	return &credentialTransport{
		base:        base,
		poToken:     creds.PoToken,
		visitorData: creds.VisitorData,
	}
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body == nil || !strings.Contains(req.URL.Path, playerPath) {
		return t.base.RoundTrip(req)
	}

	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, err
	}
	patched, err := t.patch(body)
	if err != nil {
		// Not a payload we understand; send it unmodified.
		patched = body
	}

	clone := req.Clone(req.Context())
	clone.Body = io.NopCloser(bytes.NewReader(patched))
	clone.ContentLength = int64(len(patched))
	clone.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(patched)), nil
	}
	return t.base.RoundTrip(clone)
}

func (t *credentialTransport) patch(body []byte) ([]byte, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	ctxField, ok := payload["context"].(map[string]any)
	if !ok {
		ctxField = map[string]any{}
		payload["context"] = ctxField
	}
	clientField, ok := ctxField["client"].(map[string]any)
	if !ok {
		clientField = map[string]any{}
		ctxField["client"] = clientField
	}
	clientField["visitorData"] = t.visitorData
	payload["serviceIntegrityDimensions"] = map[string]any{"poToken": t.poToken}

	return json.Marshal(payload)
}
