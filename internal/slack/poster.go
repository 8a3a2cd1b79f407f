package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
)

var _ analysis.RunPublisher = (*Poster)(nil)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Poster announces analysis runs in a Slack channel. By default only runs
// that failed or fell back to the default topic are posted.
type Poster struct {
	token     string
	channel   string
	notifyAll bool
	client    *http.Client
	logger    *slog.Logger
	apiURL    string
}

func NewPoster(token, channel string, notifyAll bool, logger *slog.Logger) *Poster {
	return &Poster{
		token:     token,
		channel:   channel,
		notifyAll: notifyAll,
		client:    &http.Client{Timeout: 10 * time.Second},
		apiURL:    defaultPostMessageURL,
		logger:    logger,
	}
}

// Wants reports whether run should be posted.
func (p *Poster) Wants(run analysis.Run) bool {
	return p.notifyAll || run.Status == analysis.StatusFailed || run.TopicDegraded
}

// PublishRun posts run when Wants allows it.
func (p *Poster) PublishRun(run analysis.Run) error {
	if !p.Wants(run) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := p.PostRun(ctx, run)
	return err
}

// PostRun posts the run summary and returns the message timestamp.
func (p *Poster) PostRun(ctx context.Context, run analysis.Run) (string, error) {
	text := formatRunMessage(run)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": "analysis `" + run.ID.String() + "`",
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted run to slack", "ts", slackResp.TS, "analysis_id", run.ID.String())
	return slackResp.TS, nil
}

func formatRunMessage(run analysis.Run) string {
	var sb strings.Builder

	if run.Status == analysis.StatusFailed {
		fmt.Fprintf(&sb, ":x: *Analysis failed* (%s)\n", run.ErrorKind)
	} else {
		sb.WriteString(":white_check_mark: *Analysis completed*\n")
	}
	fmt.Fprintf(&sb, "*Year:* %d | *Duration:* %s\n", run.TargetYear, run.Duration.Round(time.Millisecond))

	if run.Prompts > 0 {
		fmt.Fprintf(&sb, "*Prompts:* %d total, %d in year, %d undated\n", run.Prompts, run.YearPrompts, run.UndatedPrompts)
	}
	if run.Status == analysis.StatusCompleted {
		fmt.Fprintf(&sb, "*Topic:* %s | *MBTI:* %s | *Chronotype:* %s\n", run.TopTopic, run.MBTI, run.Chronotype)
	}
	if run.TopicDegraded {
		sb.WriteString("_Topic classifier unavailable, default topic used._")
	}

	return strings.TrimRight(sb.String(), "\n")
}
