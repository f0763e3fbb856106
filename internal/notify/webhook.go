// Package notify delivers report-submission pings to a chat webhook.
// Delivery is best-effort: failures are logged and counted, never returned
// to the submitter.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/funnelops/salesdash/internal/obs"
)

// Submission is the payload posted on each report submission.
type Submission struct {
	Role           string    `json:"role"`
	MemberName     string    `json:"memberName"`
	ReportDate     time.Time `json:"reportDate"`
	CashCollected  float64   `json:"cashCollected"`
	KeyMetricLabel string    `json:"keyMetricLabel"`
	KeyMetricValue float64   `json:"keyMetricValue"`
}

type Notifier struct {
	url string
	c   *http.Client
	log *slog.Logger
}

// New returns a Notifier. An empty URL disables delivery entirely.
func New(url string, timeout time.Duration, log *slog.Logger) *Notifier {
	return &Notifier{url: url, c: &http.Client{Timeout: timeout}, log: log}
}

// Notify fires the webhook in the background and returns immediately.
func (n *Notifier) Notify(s Submission) {
	if n.url == "" {
		return
	}
	go n.Send(context.Background(), s)
}

// Send delivers synchronously with retry. Exposed for callers that want to
// block (and for tests); Notify is the fire-and-forget path.
func (n *Notifier) Send(ctx context.Context, s Submission) {
	body, err := json.Marshal(s)
	if err != nil {
		n.log.Error("notify encode", slog.String("err", err.Error()))
		return
	}
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := n.c.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("webhook status %d", resp.StatusCode)
		}
		return nil
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		obs.NotifyFailures.Inc()
		n.log.Warn("notify delivery failed", slog.String("role", s.Role), slog.String("err", err.Error()))
	}
}
