package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

const maxErrorBody = 500

// renderRequest is the body posted to the rendering service
type renderRequest struct {
	HTML     string `json:"Html"`
	FileName string `json:"FileName"`
}

// RemoteRenderer posts the HTML pack to an external HTML-to-PDF service
type RemoteRenderer struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	logger     arbor.ILogger
}

var _ interfaces.PDFRenderer = (*RemoteRenderer)(nil)

// NewRemoteRenderer creates a renderer targeting serviceURL+endpoint
func NewRemoteRenderer(serviceURL, endpoint string, timeout time.Duration, logger arbor.ILogger) *RemoteRenderer {
	return &RemoteRenderer{
		endpoint:   strings.TrimRight(serviceURL, "/") + "/" + strings.TrimLeft(endpoint, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Mode implements interfaces.PDFRenderer
func (r *RemoteRenderer) Mode() string {
	return ModeRemote
}

// Endpoint returns the full rendering URL
func (r *RemoteRenderer) Endpoint() string {
	return r.endpoint
}

// RenderPDF implements interfaces.PDFRenderer
func (r *RemoteRenderer) RenderPDF(ctx context.Context, html, fileName string) ([]byte, error) {
	payload, err := json.Marshal(renderRequest{HTML: html, FileName: fileName})
	if err != nil {
		return nil, &models.RenderError{Kind: models.RenderErrorFailed, Err: err}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &models.RenderError{Kind: models.RenderErrorFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", common.UserAgent())

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		kind := classifyTransportError(ctx, err)
		r.logger.Warn().
			Str("endpoint", r.endpoint).
			Str("kind", string(kind)).
			Err(err).
			Msg("PDF service request failed")
		return nil, &models.RenderError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.RenderError{Kind: classifyTransportError(ctx, err), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &models.RenderError{
			Kind:       models.RenderErrorBadStatus,
			StatusCode: resp.StatusCode,
			Body:       msg,
		}
	}

	if !IsPDF(body) {
		return nil, &models.RenderError{Kind: models.RenderErrorInvalidPDF, Err: errors.New("response is not a PDF document")}
	}

	r.logger.Info().
		Str("file", fileName).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("PDF rendered by remote service")

	return body, nil
}

// classifyTransportError maps an HTTP client failure to a render error kind
func classifyTransportError(ctx context.Context, err error) models.RenderErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.RenderErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.RenderErrorTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return models.RenderErrorConnectionRefused
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return models.RenderErrorConnectionRefused
	}
	return models.RenderErrorFailed
}

// IsPDF reports whether data starts with the PDF magic header
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
