package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/utils"
)

type JobRepository interface {
	Insert(ctx context.Context, j *models.JobPost) error
	GetByID(ctx context.Context, id string) (*models.JobPost, error)
	ListActive(ctx context.Context, limit int) ([]models.JobPost, error)
	ListByHR(ctx context.Context, hrID string) ([]models.JobPost, error)
	CountByHRAndStatus(ctx context.Context, hrID, status string) (int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Insert(ctx context.Context, j *models.JobPost) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.JobPost, error) {
	var j models.JobPost
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) ListActive(ctx context.Context, limit int) ([]models.JobPost, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.JobPost
	err := r.db.WithContext(ctx).
		Where("status = ?", models.JobActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) ListByHR(ctx context.Context, hrID string) ([]models.JobPost, error) {
	var rows []models.JobPost
	err := r.db.WithContext(ctx).
		Where("hr_id = ?", hrID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) CountByHRAndStatus(ctx context.Context, hrID, status string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.JobPost{}).Where("hr_id = ?", hrID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}
