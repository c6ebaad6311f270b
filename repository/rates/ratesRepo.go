// repository/rates/repo.go
package ratesrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/InkaFilipinka/scooter-website-sub000/util/httpx"
)

// Repo serves the PHP→USD rate used to price stablecoin transfers. Live
// quotes are cached; on fetch failure the last good value is reused, and the
// configured static rate is the last resort so the rail degrades instead of
// blocking.
type Repo interface {
	PHPToUSD(ctx context.Context) (rate float64, live bool, err error)
}

type httpRepo struct {
	apiURL   string
	fallback float64
	client   *http.Client

	mu       sync.Mutex
	cached   float64
	cachedAt time.Time
}

const cacheTTL = 5 * time.Minute

func NewHTTP(apiURL string, fallback float64) Repo {
	return &httpRepo{apiURL: apiURL, fallback: fallback, client: httpx.Client()}
}

func (r *httpRepo) PHPToUSD(ctx context.Context) (float64, bool, error) {
	r.mu.Lock()
	if r.cached > 0 && time.Since(r.cachedAt) < cacheTTL {
		rate := r.cached
		r.mu.Unlock()
		return rate, true, nil
	}
	r.mu.Unlock()

	rate, err := r.fetch(ctx)
	if err == nil && rate > 0 {
		r.mu.Lock()
		r.cached, r.cachedAt = rate, time.Now()
		r.mu.Unlock()
		return rate, true, nil
	}
	slog.Warn("exchange rate fetch failed, using fallback", "err", err)

	// stale cache beats the static default
	r.mu.Lock()
	cached := r.cached
	r.mu.Unlock()
	if cached > 0 {
		return cached, false, nil
	}
	if r.fallback > 0 {
		return r.fallback, false, nil
	}
	return 0, false, fmt.Errorf("no exchange rate available: %w", err)
}

func (r *httpRepo) fetch(ctx context.Context) (float64, error) {
	if r.apiURL == "" {
		return 0, fmt.Errorf("rate api not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("rate api: %s", resp.Status)
	}

	var out struct {
		Rates struct {
			USD float64 `json:"USD"`
		} `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	if out.Rates.USD <= 0 {
		return 0, fmt.Errorf("rate api returned %v", out.Rates.USD)
	}
	return out.Rates.USD, nil
}
