package blobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TransferError reports a failed presign or blob transfer. Status is zero
// when the failure happened before a response was received.
type TransferError struct {
	Path   string
	Method string
	Status int
	Err    error
}

func (e *TransferError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transfer %s %s: unexpected status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("transfer %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// PresignAPI obtains a short-lived signed URL for one PUT or DELETE against
// a blob path. Satisfied by *Signer in-process and by HTTPPresigner against
// a remote portal server.
type PresignAPI interface {
	PresignURL(ctx context.Context, path, method string) (string, error)
}

// transferTimeout bounds each blob round-trip. Expiry surfaces as a
// TransferError like any other transport failure.
const transferTimeout = 30 * time.Second

// Client performs presigned blob transfers. Every upload or delete is
// exactly two round-trips: obtain the signed URL, then execute the transfer.
// No retry is attempted; a retry is always a fresh caller-initiated pair.
type Client struct {
	presign PresignAPI
	http    *http.Client
}

// NewClient creates a transfer client over the given presigner.
func NewClient(presign PresignAPI) *Client {
	return &Client{
		presign: presign,
		http:    &http.Client{Timeout: transferTimeout},
	}
}

// Upload PUTs content to a freshly presigned URL for path. The server must
// answer 200; anything else is a TransferError and the caller must assume
// nothing was stored.
func (c *Client) Upload(ctx context.Context, path string, content io.Reader) error {
	url, err := c.presign.PresignURL(ctx, path, http.MethodPut)
	if err != nil {
		return &TransferError{Path: path, Method: http.MethodPut, Err: err}
	}
	return c.execute(ctx, url, path, http.MethodPut, content, http.StatusOK)
}

// Delete issues a presigned DELETE for path. The server must answer 204.
func (c *Client) Delete(ctx context.Context, path string) error {
	url, err := c.presign.PresignURL(ctx, path, http.MethodDelete)
	if err != nil {
		return &TransferError{Path: path, Method: http.MethodDelete, Err: err}
	}
	return c.execute(ctx, url, path, http.MethodDelete, nil, http.StatusNoContent)
}

func (c *Client) execute(ctx context.Context, url, path, method string, body io.Reader, wantStatus int) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &TransferError{Path: path, Method: method, Err: err}
	}
	if method == http.MethodPut {
		req.Header.Set("Content-Type", AllowedContentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransferError{Path: path, Method: method, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != wantStatus {
		return &TransferError{Path: path, Method: method, Status: resp.StatusCode}
	}
	return nil
}

// HTTPPresigner obtains presigned URLs from the portal's presign endpoint.
// Used by clients running outside the server process.
type HTTPPresigner struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPPresigner(baseURL, bearerToken string) *HTTPPresigner {
	return &HTTPPresigner{
		baseURL: baseURL,
		token:   bearerToken,
		http:    &http.Client{Timeout: transferTimeout},
	}
}

// PresignURL implements PresignAPI against POST {baseURL}/documents/presign.
func (p *HTTPPresigner) PresignURL(ctx context.Context, path, method string) (string, error) {
	body := fmt.Sprintf(`{"file_path":%q,"method":%q}`, path, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/documents/presign", strings.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("presign endpoint returned status %d", resp.StatusCode)
	}

	var out presignResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding presign response: %w", err)
	}
	return out.URL, nil
}
