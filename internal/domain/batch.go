package domain

import "time"

// BatchStatus tracks whether a run over the batch has started or finished.
// Completed means all attempts finished, not that all items succeeded.
type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
)

// Batch is a fixed-membership grouping of items from one upload. Membership
// is set at creation and never changes; item content mutates over the batch's
// lifetime.
type Batch struct {
	ID        int64       `json:"id"`
	UploadID  int64       `json:"upload_id"`
	Name      string      `json:"name"`
	JobType   JobType     `json:"job_type"`
	Status    BatchStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
