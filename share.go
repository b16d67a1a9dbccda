package conceptcard

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"
)

// maxShareStateSize caps the inflated size of a decoded share link.
const maxShareStateSize = 1 << 20

// EncodeShareState serializes state into a URL-safe share token: JSON,
// zlib-deflated, base64 URL alphabet without padding.
func EncodeShareState(state ShareableState) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", &ShareLinkError{Message: "failed to encode state", Cause: err}
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", &ShareLinkError{Message: "failed to compress state", Cause: err}
	}
	if _, err := zw.Write(data); err != nil {
		return "", &ShareLinkError{Message: "failed to compress state", Cause: err}
	}
	if err := zw.Close(); err != nil {
		return "", &ShareLinkError{Message: "failed to compress state", Cause: err}
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeShareState reverses EncodeShareState. Either base64 alphabet is
// accepted, padded or not. The state comes back exactly as it was encoded;
// any base64, inflate, size or JSON failure yields (nil, false).
func DecodeShareState(token string) (*ShareableState, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}

	token = strings.NewReplacer("+", "-", "/", "_").Replace(token)
	token = strings.TrimRight(token, "=")
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, false
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxShareStateSize+1))
	if err != nil || len(data) > maxShareStateSize {
		return nil, false
	}

	var state ShareableState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false
	}
	return &state, true
}
