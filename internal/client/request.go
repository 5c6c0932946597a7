// Package client talks to the remote identity and order services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/anupgautam23/oms-frontend/internal/observability"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

// TokenSource reads and purges the persisted bearer token of one workspace.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Navigator forces the client back to the login entry point.
type Navigator interface {
	RedirectToLogin()
}

// Requester issues JSON requests. Authenticated calls attach the bearer token
// and treat 401 as the end of the session.
type Requester struct {
	http      *http.Client
	tokens    TokenSource
	navigator Navigator
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewRequester builds a requester for one workspace. httpClient is shared.
func NewRequester(httpClient *http.Client, tokens TokenSource, navigator Navigator, metrics *observability.Metrics, logger *zap.Logger) *Requester {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Requester{
		http:      httpClient,
		tokens:    tokens,
		navigator: navigator,
		metrics:   metrics,
		logger:    logger,
	}
}

// NewHTTPClient returns the client shared by every workspace.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Do performs an authenticated call. On 401 the token store is purged, the
// navigator redirects to login and an Unauthorized error is returned. Any
// other non-2xx status yields an HTTP error carrying the status. out may be
// nil, a *[]byte for the raw body, or a value to decode JSON into; an empty
// body leaves out untouched.
func (r *Requester) Do(ctx context.Context, op, method, url string, body, out any) error {
	token, err := r.tokens.Token(ctx)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	status, err := r.send(ctx, op, method, url, header, body, out)
	if status == http.StatusUnauthorized {
		r.expire(ctx, op)
		return apperrors.NewUnauthorized("token expired or invalid")
	}
	return err
}

// DoPublic performs a call without credentials. A 401 here is an ordinary
// HTTP error (for example rejected credentials) and does not end a session.
func (r *Requester) DoPublic(ctx context.Context, op, method, url string, body, out any) error {
	_, err := r.send(ctx, op, method, url, http.Header{}, body, out)
	return err
}

func (r *Requester) expire(ctx context.Context, op string) {
	r.logger.Warn("remote service rejected token; ending session", zap.String("operation", op))
	if err := r.tokens.Clear(ctx); err != nil {
		r.logger.Error("failed to purge token store", zap.Error(err))
	}
	if r.navigator != nil {
		r.navigator.RedirectToLogin()
	}
}

func (r *Requester) send(ctx context.Context, op, method, url string, header http.Header, body, out any) (int, error) {
	start := time.Now()
	status := 0
	defer func() {
		r.metrics.RecordRemoteCall(op, status, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, apperrors.NewInternalError(fmt.Errorf("encode %s request: %w", op, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.Warn("remote call failed", zap.String("operation", op), zap.Error(err))
		return 0, apperrors.NewTransportError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.logger.Warn("error closing response body", zap.String("operation", op), zap.Error(err))
		}
	}()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return status, apperrors.NewTransportError(fmt.Errorf("read %s response: %w", op, err))
	}

	r.logger.Debug("remote call",
		zap.String("operation", op),
		zap.String("method", method),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)))

	if status < 200 || status > 299 {
		return status, apperrors.NewHTTPError(status)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return status, nil
	}
	if rawOut, ok := out.(*[]byte); ok {
		*rawOut = raw
		return status, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return status, apperrors.NewDecodeError(fmt.Errorf("decode %s response: %w", op, err))
	}
	return status, nil
}
