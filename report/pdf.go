package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"expired-listings/utils"
)

// ErrBrowserUnavailable is returned when no Chrome or Chromium binary can be found.
var ErrBrowserUnavailable = errors.New("report: no chrome or chromium binary found")

const renderTimeout = 60 * time.Second

// PDFRenderer prints HTML reports to PDF through headless Chrome.
type PDFRenderer struct {
	chromeBin string
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// NewPDFRenderer creates a renderer. An empty chromeBin searches PATH and the
// usual install locations on first use.
func NewPDFRenderer(chromeBin string, maxRetries int, logger *utils.Logger) *PDFRenderer {
	return &PDFRenderer{
		chromeBin: chromeBin,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
	}
}

// Available reports whether a browser binary can be located.
func (p *PDFRenderer) Available() bool {
	return findChromeBinary(p.chromeBin) != ""
}

// RenderPDF renders doc to HTML and prints it as a landscape PDF.
func (p *PDFRenderer) RenderPDF(ctx context.Context, doc *Document) ([]byte, error) {
	html, err := RenderHTMLBytes(doc)
	if err != nil {
		return nil, err
	}
	return p.Print(ctx, html)
}

// Print loads html into a fresh headless tab and returns the printed PDF.
func (p *PDFRenderer) Print(ctx context.Context, html []byte) ([]byte, error) {
	chromeBin := findChromeBinary(p.chromeBin)
	if chromeBin == "" {
		return nil, ErrBrowserUnavailable
	}
	p.logger.Debug("[report] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.ExecPath(chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var pdf []byte
	err := p.retry.Do(ctx, "print-pdf", func(ctx context.Context) error {
		// Suppress chromedp log noise
		tabCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, renderTimeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate("about:blank"),
			chromedp.ActionFunc(func(ctx context.Context) error {
				tree, err := page.GetFrameTree().Do(ctx)
				if err != nil {
					return err
				}
				return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
			}),
			chromedp.ActionFunc(func(ctx context.Context) error {
				buf, _, err := page.PrintToPDF().
					WithPrintBackground(true).
					WithLandscape(true).
					Do(ctx)
				if err != nil {
					return err
				}
				pdf = buf
				return nil
			}),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("report: print pdf: %w", err)
	}

	p.logger.Info("[report] Printed %d byte PDF", len(pdf))
	return pdf, nil
}

// findChromeBinary returns configured when it exists, otherwise the first
// Chrome or Chromium found on PATH or at a common install path.
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		return ""
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
