package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/config"
	"go.uber.org/zap"
)

// Fetcher downloads source videos over HTTP. The origin CDN serves 404 or
// 5xx for a short propagation window right after an asset is generated, so
// those statuses are retried with exponential backoff; every other failure
// is treated as permanent.
type Fetcher struct {
	client         *http.Client
	maxAttempts    int
	initialDelay   time.Duration
	attemptTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
	log            *zap.Logger
}

// New builds a Fetcher. Zero or negative config values fall back to the
// package defaults.
func New(cfg config.FetchConfig, log *zap.Logger) *Fetcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = config.DefaultFetchAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = config.DefaultFetchInitialDelay
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = config.DefaultFetchAttemptTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client:         &http.Client{},
		maxAttempts:    cfg.MaxAttempts,
		initialDelay:   cfg.InitialDelay,
		attemptTimeout: cfg.AttemptTimeout,
		sleep:          sleepContext,
		log:            log,
	}
}

// Download streams url into dest, overwriting it. Retried attempts start
// from an empty file; a failed attempt never leaves partial data behind.
// The backoff before attempt k+1 is initialDelay * 2^(k-1), uncapped.
func (f *Fetcher) Download(ctx context.Context, url, dest string) error {
	const op = "fetch.download"

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := f.initialDelay << (attempt - 2)
			f.log.Info("retrying source download",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay))
			if err := f.sleep(ctx, delay); err != nil {
				return apperrors.Fetch(op, err, "download canceled during backoff")
			}
		}

		retryable, err := f.attempt(ctx, url, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return apperrors.Fetch(op, err, fmt.Sprintf("download failed: %s", url))
		}
	}

	return apperrors.Fetch(op, lastErr,
		fmt.Sprintf("download failed after %d attempts: %s", f.maxAttempts, url))
}

// attempt performs one GET. retryable reports whether the failure class is
// worth another attempt (404 or 5xx only). The destination is created only
// once a 200 arrives, so a rejected attempt cannot clobber earlier data,
// and a broken stream removes what it wrote.
func (f *Fetcher) attempt(ctx context.Context, url, dest string) (retryable bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// No status to classify: permanent.
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("failed to download: status %d", resp.StatusCode)
		return resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500, statusErr
	}

	out, err := os.Create(dest)
	if err != nil {
		return false, err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return false, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return false, err
	}
	return false, nil
}

// sleepContext waits for d unless ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
