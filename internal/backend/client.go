package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lmendo/tripdesk/internal/pkg/config"
)

const tracerName = "tripdesk/backend"

// Client is the single gateway to the external booking REST API. Every
// outgoing request goes through do, which attaches the bearer token and
// translates failures into the error taxonomy before anything reaches a
// handler.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	catalog *cache.Cache
	group   singleflight.Group
}

func NewClient(cfg config.BackendConfig, catalogTTL time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		catalog: cache.New(catalogTTL, 2*catalogTTL),
	}
}

// do performs one API call. token may be empty for public endpoints. The
// response body is returned raw so callers can run it through the envelope
// decoders in wire.go.
func (c *Client) do(ctx context.Context, token, method, path string, payload any) ([]byte, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, method+" "+path)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("backend.path", path),
	)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request for %s: %w", path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Backend unreachable", zap.String("path", path), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, transportError(err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Backend call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return nil, statusError(resp.StatusCode, raw)
	}

	return raw, nil
}

// cachedList fetches a public catalog listing, collapsing concurrent
// identical requests and serving out of the short-lived local cache.
func (c *Client) cachedList(ctx context.Context, path string) ([]byte, error) {
	if raw, found := c.catalog.Get(path); found {
		return raw.([]byte), nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		raw, err := c.do(ctx, "", http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		c.catalog.SetDefault(path, raw)
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// invalidateCatalog drops cached listings after a provider mutation so the
// dashboard reflects its own writes immediately.
func (c *Client) invalidateCatalog() {
	c.catalog.Flush()
}
