//go:build !gcloud

package displayqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/logging"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/tracing"
)

// SinkClient posts display tasks straight to a player endpoint.
type SinkClient struct {
	url        string
	httpClient *http.Client
	maxRetries int
}

func NewSinkClient(url string, maxRetries int) *SinkClient {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &SinkClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *SinkClient) Dispatch(ctx context.Context, task *DisplayTask) (*DispatchResponse, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal display task: %w", err)
	}

	return withRetry(ctx, c.maxRetries, task.DecisionID, func() (*DispatchResponse, error) {
		return c.doRequest(ctx, body, task)
	})
}

func (c *SinkClient) doRequest(ctx context.Context, body []byte, task *DisplayTask) (*DispatchResponse, error) {
	slog.DebugContext(ctx, "sending display task",
		slog.String("url", c.url),
		slog.String("decision_id", task.DecisionID),
		slog.String("transition", task.Transition),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(logging.RequestIDHeader, logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send display task",
			slog.String("decision_id", task.DecisionID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		slog.WarnContext(ctx, "unexpected status code from display sink",
			slog.String("decision_id", task.DecisionID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	// Players may answer with an empty body.
	var sinkResp sinkResponse
	_ = json.NewDecoder(resp.Body).Decode(&sinkResp)

	createTime, _ := time.Parse(time.RFC3339, sinkResp.CreateTime)
	name := sinkResp.Name
	if name == "" {
		name = task.DecisionID
	}

	slog.InfoContext(ctx, "display task dispatched",
		slog.String("task_name", name),
		slog.String("decision_id", task.DecisionID),
		slog.String("transition", task.Transition),
	)

	return &DispatchResponse{
		Name:       name,
		CreateTime: createTime,
	}, nil
}
