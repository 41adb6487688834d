package services

import (
	"context"
	"time"

	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/nimasrn/transaction-eda/internal/report"
	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/nimasrn/transaction-eda/pkg/prom"
)

type Querier interface {
	QueryNamed(ctx context.Context, name, sqlText string) (*table.Table, error)
}

type Reporter interface {
	Generate(ctx context.Context, t *table.Table, name string) (*report.Result, error)
}

type RunRepository interface {
	Create(ctx context.Context, run *model.ReportRun) (*model.ReportRun, error)
}

// ReportService runs one report end to end: query, summary and charts, then
// a ledger entry. runs may be nil when the ledger is disabled.
type ReportService struct {
	querier  Querier
	reporter Reporter
	runs     RunRepository
	source   string
	now      func() time.Time
}

func NewReportService(querier Querier, reporter Reporter, runs RunRepository, source string) *ReportService {
	return &ReportService{
		querier:  querier,
		reporter: reporter,
		runs:     runs,
		source:   source,
		now:      time.Now,
	}
}

// Run executes job. A failed run is recorded and its error returned as is.
func (s *ReportService) Run(ctx context.Context, job model.ReportSpec) (*model.ReportRun, error) {
	run := &model.ReportRun{
		ReportName: job.Name,
		Source:     s.source,
		StartedAt:  s.now().UTC(),
	}

	res, err := s.execute(ctx, job, run)
	finished := s.now().UTC()
	run.FinishedAt = &finished
	if err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		logger.Error("report failed", "report", job.Name, "error", err)
	} else {
		run.Status = model.RunStatusCompleted
		run.SummaryPath = res.SummaryPath
		run.Charts = len(res.Charts)
	}
	prom.IncReportRun(run.Status)

	s.record(ctx, run)
	return run, err
}

// RunAll runs jobs in order and stops at the first failure.
func (s *ReportService) RunAll(ctx context.Context, jobs []model.ReportSpec) ([]*model.ReportRun, error) {
	runs := make([]*model.ReportRun, 0, len(jobs))
	for _, job := range jobs {
		run, err := s.Run(ctx, job)
		runs = append(runs, run)
		if err != nil {
			return runs, err
		}
	}
	return runs, nil
}

func (s *ReportService) execute(ctx context.Context, job model.ReportSpec, run *model.ReportRun) (*report.Result, error) {
	t, err := s.querier.QueryNamed(ctx, job.Name, job.SQL)
	if err != nil {
		return nil, err
	}
	run.Rows, run.Columns = t.Shape()
	return s.reporter.Generate(ctx, t, job.Name)
}

func (s *ReportService) record(ctx context.Context, run *model.ReportRun) {
	if s.runs == nil {
		return
	}
	saved, err := s.runs.Create(context.WithoutCancel(ctx), run)
	if err != nil {
		logger.Warn("report run not recorded", "report", run.ReportName, "error", err)
		return
	}
	run.ID = saved.ID
}
