package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/nimasrn/transaction-eda/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no run matches.
	ErrNotFound = errors.New("report run not found")
)

type ReportRunRepository struct {
	*pg.DB
}

func NewReportRunRepository(db *pg.DB) *ReportRunRepository {
	return &ReportRunRepository{
		db,
	}
}

func (r *ReportRunRepository) Create(ctx context.Context, run *model.ReportRun) (*model.ReportRun, error) {
	entity := toReportRunEntity(run)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toReportRunModel(entity), nil
}

// List returns runs newest first together with the unpaginated total.
func (r *ReportRunRepository) List(ctx context.Context, f model.ReportRunFilter) ([]*model.ReportRun, int64, error) {
	q := r.Read(ctx).Model(&ReportRunEntity{})

	if f.ReportName != nil && *f.ReportName != "" {
		q = q.Where("report_name = ?", *f.ReportName)
	}
	if f.Status != nil && *f.Status != "" {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*ReportRunEntity
	if err := q.Order("started_at DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toReportRunModels(entities), total, nil
}

// Latest returns the most recent run of the named report.
func (r *ReportRunRepository) Latest(ctx context.Context, name string) (*model.ReportRun, error) {
	var entity ReportRunEntity
	err := r.Read(ctx).
		Where("report_name = ?", name).
		Order("started_at DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toReportRunModel(&entity), nil
}
