package currency

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jernejstrasner/taxes/src/logger"
)

const (
	downloadRetries = 3
	// A plausible rate file is never this small; anything shorter is an
	// error page or a truncated response.
	minRateFileSize = 500
)

// EnsureFresh downloads the rate list at url into dest at most once per
// calendar day, tracked through a marker file next to dest. A fresh marker
// with an existing dest file skips the network entirely.
func EnsureFresh(client *http.Client, url, dest string) error {
	marker := dest + ".stamp"
	today := time.Now().Format("2006-01-02")

	if stamp, err := os.ReadFile(marker); err == nil && string(stamp) == today {
		if _, err := os.Stat(dest); err == nil {
			logger.L.Debug("Rate file is fresh, skipping download", "path", dest)
			return nil
		}
	}

	if err := download(client, url, dest); err != nil {
		return err
	}
	if err := os.WriteFile(marker, []byte(today), 0o644); err != nil {
		logger.L.Warn("Failed to write download marker", "path", marker, "error", err)
	}
	return nil
}

func download(client *http.Client, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("currency: creating data directory: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= downloadRetries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(1<<attempt) * time.Second
			logger.L.Warn("Retrying rate download", "attempt", attempt, "wait", wait, "error", lastErr)
			time.Sleep(wait)
		}
		lastErr = fetchOnce(client, url, dest)
		if lastErr == nil {
			logger.L.Info("Downloaded exchange rates", "url", url, "path", dest)
			return nil
		}
	}
	return fmt.Errorf("currency: downloading %s after %d attempts: %w", url, downloadRetries, lastErr)
}

func fetchOnce(client *http.Client, url, dest string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if n < minRateFileSize {
		os.Remove(tmp)
		return fmt.Errorf("response too small (%d bytes), likely an error page", n)
	}
	return os.Rename(tmp, dest)
}
