package blobstore

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSignatureInvalid = errors.New("presigned url signature is invalid")
	ErrSignatureExpired = errors.New("presigned url has expired")
	ErrMethodNotAllowed = errors.New("method not allowed for presigning")
)

// Signer mints and verifies HMAC presigned URLs for direct blob PUT and
// DELETE. A signature covers method, path and expiry, so a URL authorizes
// exactly one operation on one path until its TTL runs out.
type Signer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

// NewSigner creates a Signer. baseURL is the externally visible server root
// the signed URLs point at (no trailing slash).
func NewSigner(secret []byte, baseURL string, ttl time.Duration) *Signer {
	return &Signer{
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the signer's clock. Used in tests.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

func (s *Signer) sign(method, path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", method, path, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// PresignURL returns a signed URL authorizing a single PUT or DELETE against
// the given blob path. Implements the presign side of the transfer client's
// PresignAPI.
func (s *Signer) PresignURL(_ context.Context, path, method string) (string, error) {
	if path == "" {
		return "", ErrMissingPath
	}
	if method != http.MethodPut && method != http.MethodDelete {
		return "", fmt.Errorf("%w: %s", ErrMethodNotAllowed, method)
	}

	expires := s.now().Add(s.ttl).Unix()
	sig := s.sign(method, path, expires)

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", sig)

	return fmt.Sprintf("%s/blobs/%s?%s", s.baseURL, path, q.Encode()), nil
}

// Verify checks the signature and expiry attached to a blob request.
func (s *Signer) Verify(method, path, expiresStr, sig string) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return ErrSignatureInvalid
	}
	if s.now().Unix() > expires {
		return ErrSignatureExpired
	}

	expected := s.sign(method, path, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrSignatureInvalid
	}
	return nil
}
