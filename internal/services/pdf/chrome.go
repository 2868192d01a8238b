package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

// A4 in inches, as expected by Page.printToPDF
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// ChromeRenderer prints the HTML pack with a local headless Chrome.
// A browser is started per render and torn down afterwards.
type ChromeRenderer struct {
	timeout  time.Duration
	execPath string
	logger   arbor.ILogger
}

var _ interfaces.PDFRenderer = (*ChromeRenderer)(nil)

// NewChromeRenderer creates a headless Chrome renderer. An empty execPath
// lets chromedp locate the browser.
func NewChromeRenderer(execPath string, timeout time.Duration, logger arbor.ILogger) *ChromeRenderer {
	return &ChromeRenderer{
		timeout:  timeout,
		execPath: execPath,
		logger:   logger,
	}
}

// Mode implements interfaces.PDFRenderer
func (c *ChromeRenderer) Mode() string {
	return ModeChrome
}

// RenderPDF implements interfaces.PDFRenderer
func (c *ChromeRenderer) RenderPDF(ctx context.Context, html, fileName string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocatorCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	defer browserCancel()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		browserCtx, cancel = context.WithTimeout(browserCtx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	var data []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			data, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		kind := models.RenderErrorFailed
		if errors.Is(err, context.DeadlineExceeded) {
			kind = models.RenderErrorTimeout
		}
		c.logger.Warn().Str("file", fileName).Str("kind", string(kind)).Err(err).Msg("Chrome PDF rendering failed")
		return nil, &models.RenderError{Kind: kind, Err: err}
	}

	if !IsPDF(data) {
		return nil, &models.RenderError{Kind: models.RenderErrorInvalidPDF, Err: errors.New("chrome returned non-PDF output")}
	}

	c.logger.Info().
		Str("file", fileName).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("PDF rendered by headless Chrome")

	return data, nil
}
