package pitchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var (
	// ErrUnauthorized means the token was missing, malformed or
	// rejected. The store is left intact so the user can
	// re-authenticate and retry without re-entering anything
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSubmitFailed covers every server-side failure. The store is
	// left intact for a retry
	ErrSubmitFailed = errors.New("submission failed, please try again")

	// ErrSubmissionInFlight rejects a second submit while one is
	// still pending, so a double-click can't create two records
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// SubmitResult is the user-visible outcome of a successful submission
type SubmitResult struct {
	PitchID uint `json:"pitchId"`
}

type Client struct {
	// BaseURL points at the API root, e.g. http://localhost:8080
	BaseURL string
	HTTP    *http.Client

	mu       sync.Mutex
	inFlight bool
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// SubmitPitch encodes a snapshot of the store, posts it and
// interprets the response. Exactly one submission may be in flight
// per client. On success the store is torn down (all previews
// released); on any failure it is left untouched so the user can
// retry
func (c *Client) SubmitPitch(ctx context.Context, token string, fields PitchFields, store *PreviewStore) (*SubmitResult, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	// The snapshot already passed admission validation on its way
	// into the store, so nothing is re-validated here
	var buf bytes.Buffer
	contentType, err := EncodeSubmission(&buf, fields, store.Video(), store.Photos())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/pitches", &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSubmitFailed, err)
	}
	defer resp.Body.Close()

	result, err := handleResponse(resp)
	if err != nil {
		return nil, err
	}

	store.Close()
	return result, nil
}

// handleResponse maps the server's reply onto the outcomes the form
// cares about
func handleResponse(resp *http.Response) (*SubmitResult, error) {
	switch {
	case resp.StatusCode == http.StatusOK:
		var body struct {
			Success bool `json:"success"`
			PitchID uint `json:"pitchId"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: malformed response", ErrSubmitFailed)
		}

		return &SubmitResult{PitchID: body.PitchID}, nil

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized

	default:
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrSubmitFailed, body.Error)
		}

		return nil, ErrSubmitFailed
	}
}
