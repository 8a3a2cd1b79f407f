package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
)

// Subjects for analysis lifecycle events.
const (
	SubjectAnalysisCompleted = "wrapped.analysis.completed"
	SubjectAnalysisFailed    = "wrapped.analysis.failed"
)

// RunEvent is the payload of an analysis lifecycle event. It carries counts
// and labels only.
type RunEvent struct {
	AnalysisID     string `json:"analysis_id"`
	TargetYear     int    `json:"target_year"`
	Status         string `json:"status"`
	ErrorKind      string `json:"error_kind,omitempty"`
	Prompts        int    `json:"prompts"`
	YearPrompts    int    `json:"year_prompts"`
	UniqueKeywords int    `json:"unique_keywords"`
	TopTopic       string `json:"top_topic,omitempty"`
	TopicDegraded  bool   `json:"topic_degraded,omitempty"`
	MBTI           string `json:"mbti,omitempty"`
	Chronotype     string `json:"chronotype,omitempty"`
	DurationMS     int64  `json:"duration_ms"`
	Timestamp      string `json:"timestamp"`
}

// NewRunEvent converts run metadata to its wire form.
func NewRunEvent(run analysis.Run) RunEvent {
	return RunEvent{
		AnalysisID:     run.ID.String(),
		TargetYear:     run.TargetYear,
		Status:         run.Status,
		ErrorKind:      string(run.ErrorKind),
		Prompts:        run.Prompts,
		YearPrompts:    run.YearPrompts,
		UniqueKeywords: run.UniqueKeywords,
		TopTopic:       run.TopTopic,
		TopicDegraded:  run.TopicDegraded,
		MBTI:           run.MBTI,
		Chronotype:     run.Chronotype,
		DurationMS:     run.Duration.Milliseconds(),
		Timestamp:      run.StartedAt.UTC().Format(time.RFC3339),
	}
}

// SubjectFor picks the subject matching the run status.
func SubjectFor(run analysis.Run) string {
	if run.Status == analysis.StatusFailed {
		return SubjectAnalysisFailed
	}
	return SubjectAnalysisCompleted
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("wrapped"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// PublishRun announces a finished analysis.
func (c *Client) PublishRun(run analysis.Run) error {
	return c.Publish(SubjectFor(run), NewRunEvent(run))
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// closeFlushTimeout bounds how long Close waits for queued publishes.
const closeFlushTimeout = 5 * time.Second

// Close flushes queued publishes, then closes the connection.
func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	if c.conn.IsConnected() {
		if err := c.conn.FlushTimeout(closeFlushTimeout); err != nil {
			c.logger.Warn("nats flush on close failed", "error", err)
		}
	}
	c.conn.Close()
}
