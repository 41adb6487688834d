package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ReportSpec names one report and the SQL that produces its analysis table.
type ReportSpec struct {
	Name string
	SQL  string
}

// ReportRun is one entry of the report ledger.
type ReportRun struct {
	ID          uuid.UUID  `json:"id"`
	ReportName  string     `json:"report_name"`
	Source      string     `json:"source"`
	Rows        int        `json:"rows"`
	Columns     int        `json:"columns"`
	Charts      int        `json:"charts"`
	SummaryPath string     `json:"summary_path"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

type ReportRunFilter struct {
	ReportName *string
	Status     *string
	Limit      int
	Offset     int
}
