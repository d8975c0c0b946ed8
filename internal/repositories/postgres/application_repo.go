package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/utils"
)

type ApplicationRepository interface {
	Insert(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	ExistsByCandidateAndJob(ctx context.Context, candidateID, jobID string) (bool, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error)
	ListByJobs(ctx context.Context, jobIDs []string) ([]models.Application, error)
	CountByJobs(ctx context.Context, jobIDs []string, status string) (int64, error)
	CountByCandidate(ctx context.Context, candidateID string) (int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Insert(ctx context.Context, a *models.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) ExistsByCandidateAndJob(ctx context.Context, candidateID, jobID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		Count(&n).Error
	return n > 0, err
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]models.Application, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id IN ?", jobIDs).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) CountByJobs(ctx context.Context, jobIDs []string, status string) (int64, error) {
	if len(jobIDs) == 0 {
		return 0, nil
	}
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Application{}).Where("job_id IN ?", jobIDs)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *applicationRepo) CountByCandidate(ctx context.Context, candidateID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("candidate_id = ?", candidateID).
		Count(&n).Error
	return n, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
