package camunda

import (
	"errors"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/validation"
)

func job(taskType, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                1,
		Type:               taskType,
		ProcessInstanceKey: 2,
		Retries:            3,
		Variables:          variables,
	}}
}

type sampleInput struct {
	OwnerID string  `json:"ownerId" validate:"required"`
	Sales   float64 `json:"sales" validate:"gte=0"`
}

func TestDecode(t *testing.T) {
	v := validation.New()
	require.NoError(t, v.AddSchema("record-daily-metrics", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"ownerId"},
	}))

	tests := []struct {
		name      string
		taskType  string
		variables string
		wantErr   bool
	}{
		{"valid", "record-daily-metrics", `{"ownerId":"o-1","sales":10}`, false},
		{"schema rejects", "record-daily-metrics", `{"sales":10}`, true},
		{"struct tags reject", "other", `{"ownerId":"o-1","sales":-1}`, true},
		{"malformed json", "other", `{"ownerId":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in sampleInput
			err := Decode(job(tt.taskType, tt.variables), v, &in)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "o-1", in.OwnerID)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInputValidation))
		})
	}
}

func TestDecode_NilValidator(t *testing.T) {
	var in sampleInput
	require.NoError(t, Decode(job("other", `{"sales":-1}`), nil, &in))
	assert.Equal(t, -1.0, in.Sales)
}

// stubClient hands out nil commands; the handlers below never send them.
type stubClient struct{}

func (stubClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (stubClient) NewFailJobCommand() commands.FailJobCommandStep1         { return nil }
func (stubClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1   { return nil }

type handlerFunc func(client worker.JobClient, job entities.Job)

func (f handlerFunc) Handle(client worker.JobClient, job entities.Job) { f(client, job) }

func TestInstrument_TracksOutcome(t *testing.T) {
	tests := []struct {
		name   string
		report func(worker.JobClient)
		want   string
	}{
		{"complete", func(c worker.JobClient) { c.NewCompleteJobCommand() }, StatusCompleted},
		{"fail", func(c worker.JobClient) { c.NewFailJobCommand() }, StatusFailed},
		{"throw", func(c worker.JobClient) { c.NewThrowErrorCommand() }, StatusThrown},
		{"nothing", func(worker.JobClient) {}, StatusUnreported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *trackingClient
			handler := handlerFunc(func(client worker.JobClient, _ entities.Job) {
				tt.report(client)
				seen = client.(*trackingClient)
			})

			Instrument("next-question", handler, nil)(stubClient{}, job("next-question", `{}`))

			require.NotNil(t, seen)
			assert.Equal(t, tt.want, seen.status)
		})
	}
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, isRetryableZeebeError(errors.New("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(errors.New("permission denied")))
}
