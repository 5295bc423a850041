package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity scans the books for balance anomalies.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskCostReportWarmup refreshes the cached monthly cost report.
	TaskCostReportWarmup = "reports:cost_warmup"
)

// IntegrityPayload configures a ledger integrity scan.
type IntegrityPayload struct {
	// Limit caps how many anomalies are reported per run. Zero means all.
	Limit int `json:"limit,omitempty"`
}

// NewIntegrityTask constructs an integrity scan task.
func NewIntegrityTask(payload IntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// NewCostReportWarmupTask constructs a report warmup task.
func NewCostReportWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskCostReportWarmup, nil)
}
