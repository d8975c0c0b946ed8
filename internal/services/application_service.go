package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexhire/backend/internal/models"
	mongorepo "github.com/nexhire/backend/internal/repositories/mongo"
	"github.com/nexhire/backend/internal/repositories/postgres"
	"github.com/nexhire/backend/internal/storage"
	"github.com/nexhire/backend/internal/utils"
)

type ApplyInput struct {
	JobID          string
	CoverLetter    string
	ResumeFileName string
	Resume         []byte
	ResumeType     string
}

type ApplicationView struct {
	models.Application
	ResumeURL string `json:"resume_url,omitempty"`
}

type CandidateStats struct {
	Applications     int64 `json:"applications"`
	Interviews       int64 `json:"interviews"`
	CodingChallenges int64 `json:"codingChallenges"`
	ResumeAnalyzed   bool  `json:"resumeAnalyzed"`
}

type HRStats struct {
	ActiveJobs        int64 `json:"activeJobs"`
	TotalApplications int64 `json:"totalApplications"`
	PendingReview     int64 `json:"pendingReview"`
	Shortlisted       int64 `json:"shortlisted"`
}

type ApplicationService interface {
	Apply(ctx context.Context, candidateID string, in ApplyInput) (*models.Application, error)
	ListForCandidate(ctx context.Context, candidateID string) ([]models.Application, error)
	ListForHR(ctx context.Context, hrID string) ([]ApplicationView, error)
	UpdateStatus(ctx context.Context, hrID, applicationID, status string) error
	CandidateStats(ctx context.Context, candidateID string) (*CandidateStats, error)
	HRStats(ctx context.Context, hrID string) (*HRStats, error)
}

type applicationService struct {
	apps     postgres.ApplicationRepository
	jobs     postgres.JobRepository
	profiles postgres.ProfileRepository
	sessions mongorepo.InterviewSessionRepository
	uploader storage.Uploader
	signer   storage.Signer
	log      *logrus.Logger
}

func NewApplicationService(
	apps postgres.ApplicationRepository,
	jobs postgres.JobRepository,
	profiles postgres.ProfileRepository,
	sessions mongorepo.InterviewSessionRepository,
	uploader storage.Uploader,
	signer storage.Signer,
	log *logrus.Logger,
) ApplicationService {
	if log == nil {
		log = logrus.New()
	}
	return &applicationService{
		apps:     apps,
		jobs:     jobs,
		profiles: profiles,
		sessions: sessions,
		uploader: uploader,
		signer:   signer,
		log:      log,
	}
}

func (s *applicationService) Apply(ctx context.Context, candidateID string, in ApplyInput) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job post not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job post", err)
	}
	if job.Status != models.JobActive {
		return nil, utils.E(utils.CodeConflict, op, "job post is closed", nil)
	}

	exists, err := s.apps.ExistsByCandidateAndJob(ctx, candidateID, in.JobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "already applied to this job", ErrAlreadyApplied)
	}

	app := &models.Application{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		JobID:       in.JobID,
		CoverLetter: in.CoverLetter,
		Status:      models.ApplicationPending,
		CreatedAt:   time.Now().UTC(),
	}

	if len(in.Resume) > 0 {
		if s.uploader == nil {
			return nil, utils.E(utils.CodeUnavailable, op, "resume storage is not configured", nil)
		}
		ext := strings.ToLower(path.Ext(in.ResumeFileName))
		key := fmt.Sprintf("resumes/%s/%s%s", candidateID, app.ID, ext)
		stored, err := s.uploader.Upload(ctx, key, in.ResumeType, bytes.NewReader(in.Resume))
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to store resume", err)
		}
		app.ResumeFileName = in.ResumeFileName
		app.ResumePath = stored
	}

	if err := s.apps.Insert(ctx, app); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}

	s.log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"job_id":         in.JobID,
		"candidate_id":   candidateID,
	}).Info("application submitted")
	return app, nil
}

func (s *applicationService) ListForCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	const op = "ApplicationService.ListForCandidate"

	apps, err := s.apps.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return apps, nil
}

// ListForHR returns every application on the HR user's job posts, each with a
// short-lived signed link to the stored resume.
func (s *applicationService) ListForHR(ctx context.Context, hrID string) ([]ApplicationView, error) {
	const op = "ApplicationService.ListForHR"

	jobs, err := s.jobs.ListByHR(ctx, hrID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list job posts", err)
	}
	jobIDs := make([]string, 0, len(jobs))
	for _, j := range jobs {
		jobIDs = append(jobIDs, j.ID)
	}

	apps, err := s.apps.ListByJobs(ctx, jobIDs)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}

	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		v := ApplicationView{Application: app}
		if app.ResumePath != "" && s.signer != nil {
			url, serr := s.signer.SignedGetURL(ctx, app.ResumePath, 15*time.Minute)
			if serr != nil {
				s.log.WithError(serr).WithField("application_id", app.ID).Warn("failed to sign resume url")
			} else {
				v.ResumeURL = url
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, hrID, applicationID, status string) error {
	const op = "ApplicationService.UpdateStatus"

	switch status {
	case models.ApplicationShortlisted, models.ApplicationRejected, models.ApplicationAccepted, models.ApplicationPending:
	default:
		return utils.E(utils.CodeInvalidArgument, op, "invalid application status", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load job post", err)
	}
	if job.HRID != hrID {
		return utils.E(utils.CodeForbidden, op, "application belongs to another recruiter's job", nil)
	}

	if err := s.apps.UpdateStatus(ctx, applicationID, status); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update application status", err)
	}
	return nil
}

func (s *applicationService) CandidateStats(ctx context.Context, candidateID string) (*CandidateStats, error) {
	const op = "ApplicationService.CandidateStats"

	appCount, err := s.apps.CountByCandidate(ctx, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}

	interviews, err := s.sessions.CountByUserAndStatus(ctx, candidateID, models.SessionCompleted)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count interviews", err)
	}

	// CodingChallenges stays zero: the judge integration lives elsewhere.
	stats := &CandidateStats{
		Applications: appCount,
		Interviews:   interviews,
	}
	if _, err := s.profiles.GetByUserID(ctx, candidateID); err == nil {
		stats.ResumeAnalyzed = true
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	return stats, nil
}

func (s *applicationService) HRStats(ctx context.Context, hrID string) (*HRStats, error) {
	const op = "ApplicationService.HRStats"

	active, err := s.jobs.CountByHRAndStatus(ctx, hrID, models.JobActive)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count job posts", err)
	}

	jobs, err := s.jobs.ListByHR(ctx, hrID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list job posts", err)
	}
	jobIDs := make([]string, 0, len(jobs))
	for _, j := range jobs {
		jobIDs = append(jobIDs, j.ID)
	}

	total, err := s.apps.CountByJobs(ctx, jobIDs, "")
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}
	pending, err := s.apps.CountByJobs(ctx, jobIDs, models.ApplicationPending)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}
	shortlisted, err := s.apps.CountByJobs(ctx, jobIDs, models.ApplicationShortlisted)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}

	return &HRStats{
		ActiveJobs:        active,
		TotalApplications: total,
		PendingReview:     pending,
		Shortlisted:       shortlisted,
	}, nil
}
