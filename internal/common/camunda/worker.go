package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bizhealth-workers/internal/common/config"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/metrics"
	"bizhealth-workers/internal/common/observability"
)

// Job outcomes as seen by the broker.
const (
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusThrown     = "error_thrown"
	StatusUnreported = "unreported"
)

// JobHandler is implemented by every worker package.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType with the instrumented handler.
func NewWorker(
	client zbc.Client,
	taskType string,
	cfg config.WorkerConfig,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Open()

	w := &Worker{
		worker:   jobWorker,
		logger:   log.WithFields(map[string]interface{}{"taskType": taskType}),
		taskType: taskType,
	}
	w.logger.Info("worker started", map[string]interface{}{
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})
	return w
}

func (w *Worker) TaskType() string { return w.taskType }

// Close stops polling and waits for in-flight jobs.
func (w *Worker) Close() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

// Instrument wraps handler with the active-jobs gauge, the duration
// histogram, a span per job and the OpenTelemetry job meters.
func Instrument(taskType string, handler JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		ctx, span := observability.Tracer().Start(context.Background(), taskType,
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.Int64("job.key", job.Key),
				attribute.Int64("process.instance.key", job.ProcessInstanceKey),
				attribute.Int64("job.retries", int64(job.Retries)),
			),
		)
		defer span.End()

		tracked := &trackingClient{JobClient: client, status: StatusUnreported}
		start := time.Now()

		handler.Handle(tracked, job)

		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		obs.RecordJob(ctx, taskType, tracked.status, elapsed)

		span.SetAttributes(attribute.String("job.status", tracked.status))
		if tracked.status != StatusCompleted {
			span.SetStatus(codes.Error, tracked.status)
		}
	}
}

// trackingClient remembers which command the handler reported.
type trackingClient struct {
	worker.JobClient
	status string
}

func (c *trackingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = StatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *trackingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = StatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *trackingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = StatusThrown
	return c.JobClient.NewThrowErrorCommand()
}
