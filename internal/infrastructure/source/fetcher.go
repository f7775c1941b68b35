package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/precivox/backend/internal/domain"
)

// maxPayloadBytes caps how much of a source response is read, defending
// against runaway feeds.
const maxPayloadBytes = 16 << 20

// HTTPFetcher retrieves raw payloads over HTTP or from local files
// (endpoints starting with "file://"). Outbound calls share a rate limiter.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewHTTPFetcher creates a fetcher limited to rps requests per second with
// the given burst. Per-call deadlines come from the caller's context, so
// the underlying client carries no timeout of its own.
func NewHTTPFetcher(rps float64, burst int, logger zerolog.Logger) *HTTPFetcher {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &HTTPFetcher{
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch retrieves the raw payload for src, bounded by ctx.
func (f *HTTPFetcher) Fetch(ctx context.Context, src domain.Source) ([]byte, error) {
	if path, ok := strings.CutPrefix(src.Endpoint, "file://"); ok {
		return f.fetchFile(path)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreachable, err)
	}
	req.Header.Set("User-Agent", "Precivox/1.0")
	req.Header.Set("Accept", "application/json, text/csv")
	for key, value := range src.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Debug().Str("source", src.ID).Int("status", resp.StatusCode).Msg("non-success status")
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnreachable, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreachable, err)
	}
	return payload, nil
}

func (f *HTTPFetcher) fetchFile(path string) ([]byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreachable, err)
	}
	return payload, nil
}
