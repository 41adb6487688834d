package repository

import (
	"time"

	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/nimasrn/transaction-eda/pkg/pg"
)

type ReportRunEntity struct {
	pg.Model
	ReportName  string     `gorm:"column:report_name;not null;index"`
	Source      string     `gorm:"column:source;not null"`
	RowCount    int        `gorm:"column:row_count;not null"`
	ColumnCount int        `gorm:"column:column_count;not null"`
	ChartCount  int        `gorm:"column:chart_count;not null"`
	SummaryPath string     `gorm:"column:summary_path;not null"`
	Status      string     `gorm:"column:status;not null"`
	Error       string     `gorm:"column:error;not null"`
	StartedAt   time.Time  `gorm:"column:started_at;not null"`
	FinishedAt  *time.Time `gorm:"column:finished_at"`
}

func (ReportRunEntity) TableName() string {
	return "report_runs"
}

func toReportRunEntity(m *model.ReportRun) *ReportRunEntity {
	if m == nil {
		return nil
	}
	return &ReportRunEntity{
		Model:       pg.Model{ID: m.ID},
		ReportName:  m.ReportName,
		Source:      m.Source,
		RowCount:    m.Rows,
		ColumnCount: m.Columns,
		ChartCount:  m.Charts,
		SummaryPath: m.SummaryPath,
		Status:      m.Status,
		Error:       m.Error,
		StartedAt:   m.StartedAt,
		FinishedAt:  m.FinishedAt,
	}
}

func toReportRunModel(e *ReportRunEntity) *model.ReportRun {
	if e == nil {
		return nil
	}
	return &model.ReportRun{
		ID:          e.ID,
		ReportName:  e.ReportName,
		Source:      e.Source,
		Rows:        e.RowCount,
		Columns:     e.ColumnCount,
		Charts:      e.ChartCount,
		SummaryPath: e.SummaryPath,
		Status:      e.Status,
		Error:       e.Error,
		StartedAt:   e.StartedAt,
		FinishedAt:  e.FinishedAt,
	}
}

func toReportRunModels(entities []*ReportRunEntity) []*model.ReportRun {
	if entities == nil {
		return nil
	}
	models := make([]*model.ReportRun, len(entities))
	for i, e := range entities {
		models[i] = toReportRunModel(e)
	}
	return models
}
