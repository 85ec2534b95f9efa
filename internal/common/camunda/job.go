package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/metrics"
	"bizhealth-workers/internal/common/validation"
)

// Decode checks the job variables against the input schema registered for
// the job type, unmarshals them into out and applies out's struct tags.
// A nil validator only unmarshals.
func Decode(job entities.Job, v *validation.Validator, out interface{}) error {
	if v != nil {
		if err := v.ValidateVariables(job.Type, job.Variables).Err(); err != nil {
			return err
		}
	}
	if err := json.Unmarshal([]byte(job.Variables), out); err != nil {
		return apperrors.NewInputValidationFailedError(fmt.Sprintf("parse variables: %v", err))
	}
	if v != nil {
		return v.ValidateStruct(out).Err()
	}
	return nil
}

// Complete sends output as the job's result variables.
func Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
	log.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}
