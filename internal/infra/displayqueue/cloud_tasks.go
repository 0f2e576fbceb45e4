//go:build gcloud

package displayqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/tracing"
)

type CloudTasksClient struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &CloudTasksClient{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (c *CloudTasksClient) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", c.projectID, c.locationID, c.queueID)
}

func (c *CloudTasksClient) Dispatch(ctx context.Context, task *DisplayTask) (*DispatchResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal display task: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	tracing.InjectToMap(ctx, headers)

	// Task names dedupe retries of the same decision.
	cloudTask := &taskspb.Task{
		Name: fmt.Sprintf("%s/tasks/%s", c.queuePath(), task.DecisionID),
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers:    headers,
				Body:       payload,
			},
		},
	}
	if !task.IssuedAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(task.IssuedAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath(),
		Task:   cloudTask,
	}

	return withRetry(ctx, c.maxRetries, task.DecisionID, func() (*DispatchResponse, error) {
		return c.createTask(ctx, req, task.DecisionID)
	})
}

func (c *CloudTasksClient) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, decisionID string) (*DispatchResponse, error) {
	slog.DebugContext(ctx, "registering display task to Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.String("decision_id", decisionID),
	)

	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			slog.InfoContext(ctx, "display task already registered",
				slog.String("decision_id", decisionID),
			)
			return &DispatchResponse{Name: req.Task.Name}, nil
		}

		slog.WarnContext(ctx, "failed to create cloud task",
			slog.String("decision_id", decisionID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.InfoContext(ctx, "display task registered to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("decision_id", decisionID),
	)

	var createTime time.Time
	if createdTask.CreateTime != nil {
		createTime = createdTask.CreateTime.AsTime()
	}

	return &DispatchResponse{
		Name:       createdTask.Name,
		CreateTime: createTime,
	}, nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}
