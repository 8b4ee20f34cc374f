// Package snapshot captures full-page screenshots of the dashboard with a
// headless Chrome.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"rent-dashboard/utils"
)

// ErrNoBrowser is returned when no Chrome or Chromium binary can be found.
var ErrNoBrowser = errors.New("snapshot: no chrome binary found")

const (
	defaultTimeout = 60 * time.Second
	viewportWidth  = 1400
	viewportHeight = 900
	pngQuality     = 90
)

// Capturer drives a headless browser to screenshot pages.
type Capturer struct {
	chromeBin string
	timeout   time.Duration
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// New returns a Capturer. An empty chromeBin is resolved with FindChromeBinary.
func New(chromeBin string, maxRetries int, logger *utils.Logger) (*Capturer, error) {
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	if chromeBin == "" {
		return nil, ErrNoBrowser
	}
	return &Capturer{
		chromeBin: chromeBin,
		timeout:   defaultTimeout,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}, nil
}

// Capture loads url and returns a PNG of the whole page.
func (c *Capturer) Capture(ctx context.Context, url string) ([]byte, error) {
	c.logger.Info("[snapshot] Using browser binary: %s", c.chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(viewportWidth, viewportHeight),
		chromedp.ExecPath(c.chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var buf []byte
	err := c.retry.Do(allocCtx, "screenshot", func(ctx context.Context) error {
		// Suppress chromedp log noise
		tabCtx, cancelTab := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.EmulateViewport(viewportWidth, viewportHeight),
			chromedp.Navigate(url),
			chromedp.WaitVisible("main", chromedp.ByQuery),
			chromedp.FullScreenshot(&buf, pngQuality),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", url, err)
	}

	c.logger.Info("[snapshot] Captured %s (%d bytes)", url, len(buf))
	return buf, nil
}

// CaptureToFile writes the screenshot of url to path.
func (c *Capturer) CaptureToFile(ctx context.Context, url, path string) error {
	png, err := c.Capture(ctx, url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// FindChromeBinary looks at CHROME_BIN, then PATH, then the usual install
// locations. It returns "" when nothing is found.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
