package models

import "time"

// Calculation represents a computed schedule, optionally persisted
type Calculation struct {
	ID        int64           `json:"id,omitempty"`
	Mortgage  Mortgage        `json:"mortgage"`
	Summary   Summary         `json:"summary"`
	Schedule  []ScheduleEntry `json:"schedule"`
	Signature string          `json:"-"`
	Cached    bool            `json:"cached,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitzero"`
}
