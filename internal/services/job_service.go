package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/repositories/postgres"
	"github.com/nexhire/backend/internal/utils"
)

type CreateJobInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Skills      []string `json:"skills"`
}

type JobService interface {
	Create(ctx context.Context, hrID string, in CreateJobInput) (*models.JobPost, error)
	Get(ctx context.Context, id string) (*models.JobPost, error)
	ListActive(ctx context.Context, limit int) ([]models.JobPost, error)
	ListByHR(ctx context.Context, hrID string) ([]models.JobPost, error)
}

type jobService struct {
	jobs postgres.JobRepository
	log  *logrus.Logger
}

func NewJobService(jobs postgres.JobRepository, log *logrus.Logger) JobService {
	if log == nil {
		log = logrus.New()
	}
	return &jobService{jobs: jobs, log: log}
}

func (s *jobService) Create(ctx context.Context, hrID string, in CreateJobInput) (*models.JobPost, error) {
	const op = "JobService.Create"

	if strings.TrimSpace(in.Title) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title is required", nil)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "description is required", nil)
	}

	job := &models.JobPost{
		ID:          uuid.NewString(),
		HRID:        hrID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		Skills:      in.Skills,
		Status:      models.JobActive,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job post", err)
	}

	s.log.WithFields(logrus.Fields{"job_id": job.ID, "hr_id": hrID}).Info("job post created")
	return job, nil
}

func (s *jobService) Get(ctx context.Context, id string) (*models.JobPost, error) {
	const op = "JobService.Get"

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job post not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job post", err)
	}
	return job, nil
}

func (s *jobService) ListActive(ctx context.Context, limit int) ([]models.JobPost, error) {
	const op = "JobService.ListActive"

	jobs, err := s.jobs.ListActive(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list job posts", err)
	}
	return jobs, nil
}

func (s *jobService) ListByHR(ctx context.Context, hrID string) ([]models.JobPost, error) {
	const op = "JobService.ListByHR"

	jobs, err := s.jobs.ListByHR(ctx, hrID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list job posts", err)
	}
	return jobs, nil
}
