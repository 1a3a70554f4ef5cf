package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sivaneshk23/honeypot-api/internal/config"
	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

// Reporter delivers the final intelligence report for a session
type Reporter interface {
	Deliver(ctx context.Context, report *models.FinalReport) error
}

// CallbackReporter posts the report to an external HTTP endpoint.
// Delivery is fire and forget: a single attempt, no retries, and the
// session is torn down whether or not the endpoint accepted it.
type CallbackReporter struct {
	url    string
	client *http.Client
	logger *logger.Logger
}

// NewCallbackReporter builds a reporter from the callback config.
func NewCallbackReporter(cfg config.CallbackConfig, log *logger.Logger) *CallbackReporter {
	return &CallbackReporter{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.WithComponent("callback-reporter"),
	}
}

// Deliver posts the report as JSON. Non-2xx responses are errors so
// the caller can log them, but nothing is retried.
func (r *CallbackReporter) Deliver(ctx context.Context, report *models.FinalReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}

	r.logger.Info().
		Str("session_id", report.SessionID).
		Int("messages", report.TotalMessagesExchanged).
		Msg("final report delivered")
	return nil
}
