package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	anomalies []Anomaly
	err       error
	gotLimit  int
}

func (s *stubSource) Scan(ctx context.Context, limit int) ([]Anomaly, error) {
	s.gotLimit = limit
	return s.anomalies, s.err
}

func TestIntegrityHandleReportsAnomalies(t *testing.T) {
	source := &stubSource{anomalies: []Anomaly{
		{AccountID: "a1", Name: "حاجی رحیم", Lend: -40, Borrow: 0, Reason: "negative balance"},
	}}
	job := NewIntegrityJob(source, nil)

	task, err := NewIntegrityTask(IntegrityPayload{Limit: 10})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 10, source.gotLimit)
}

func TestIntegrityHandleCleanBooks(t *testing.T) {
	job := NewIntegrityJob(&stubSource{}, nil)
	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskLedgerIntegrity, nil)))
}

func TestIntegrityHandlePropagatesScanError(t *testing.T) {
	source := &stubSource{err: errors.New("storage down")}
	job := NewIntegrityJob(source, nil)
	require.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskLedgerIntegrity, nil)))
}

func TestIntegrityHandleSkipsMalformedPayload(t *testing.T) {
	job := NewIntegrityJob(&stubSource{}, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskLedgerIntegrity, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
