package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/utils"
)

type fakeJobRepo struct {
	jobs map[string]*models.JobPost
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*models.JobPost{}}
}

func (r *fakeJobRepo) Insert(_ context.Context, j *models.JobPost) error {
	r.jobs[j.ID] = j
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*models.JobPost, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) ListActive(_ context.Context, _ int) ([]models.JobPost, error) {
	var out []models.JobPost
	for _, j := range r.jobs {
		if j.Status == models.JobActive {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListByHR(_ context.Context, hrID string) ([]models.JobPost, error) {
	var out []models.JobPost
	for _, j := range r.jobs {
		if j.HRID == hrID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) CountByHRAndStatus(_ context.Context, hrID, status string) (int64, error) {
	var n int64
	for _, j := range r.jobs {
		if j.HRID == hrID && (status == "" || j.Status == status) {
			n++
		}
	}
	return n, nil
}

type fakeApplicationRepo struct {
	apps map[string]*models.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[string]*models.Application{}}
}

func (r *fakeApplicationRepo) Insert(_ context.Context, a *models.Application) error {
	r.apps[a.ID] = a
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return a, nil
}

func (r *fakeApplicationRepo) ExistsByCandidateAndJob(_ context.Context, candidateID, jobID string) (bool, error) {
	for _, a := range r.apps {
		if a.CandidateID == candidateID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) ListByCandidate(_ context.Context, candidateID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range r.apps {
		if a.CandidateID == candidateID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByJobs(_ context.Context, jobIDs []string) ([]models.Application, error) {
	ids := map[string]bool{}
	for _, id := range jobIDs {
		ids[id] = true
	}
	var out []models.Application
	for _, a := range r.apps {
		if ids[a.JobID] {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountByJobs(_ context.Context, jobIDs []string, status string) (int64, error) {
	ids := map[string]bool{}
	for _, id := range jobIDs {
		ids[id] = true
	}
	var n int64
	for _, a := range r.apps {
		if ids[a.JobID] && (status == "" || a.Status == status) {
			n++
		}
	}
	return n, nil
}

func (r *fakeApplicationRepo) CountByCandidate(_ context.Context, candidateID string) (int64, error) {
	var n int64
	for _, a := range r.apps {
		if a.CandidateID == candidateID {
			n++
		}
	}
	return n, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id, status string) error {
	a, ok := r.apps[id]
	if !ok {
		return utils.ErrNotFound
	}
	a.Status = status
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.CandidateProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.CandidateProfile{}}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*models.CandidateProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *models.CandidateProfile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) SearchSimilar(_ context.Context, _ []float32, _ int) ([]models.CandidateProfile, error) {
	return nil, nil
}

type appFixture struct {
	svc      ApplicationService
	jobs     *fakeJobRepo
	apps     *fakeApplicationRepo
	profiles *fakeProfileRepo
	sessions *fakeSessionRepo
}

func newAppFixture() *appFixture {
	f := &appFixture{
		jobs:     newFakeJobRepo(),
		apps:     newFakeApplicationRepo(),
		profiles: newFakeProfileRepo(),
		sessions: newFakeSessionRepo(),
	}
	f.svc = NewApplicationService(f.apps, f.jobs, f.profiles, f.sessions, nil, nil, nil)
	return f
}

func (f *appFixture) addJob(id, hrID, status string) {
	f.jobs.jobs[id] = &models.JobPost{ID: id, HRID: hrID, Title: "Backend Engineer", Status: status, CreatedAt: time.Now()}
}

func TestApply_OncePerJob(t *testing.T) {
	f := newAppFixture()
	f.addJob("job-1", "hr-1", models.JobActive)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, "cand-1", ApplyInput{JobID: "job-1"}); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	_, err := f.svc.Apply(ctx, "cand-1", ApplyInput{JobID: "job-1"})
	if !errors.Is(err, ErrAlreadyApplied) || !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("expected CONFLICT/ErrAlreadyApplied, got %v", err)
	}
}

func TestApply_ClosedJob(t *testing.T) {
	f := newAppFixture()
	f.addJob("job-1", "hr-1", models.JobClosed)

	_, err := f.svc.Apply(context.Background(), "cand-1", ApplyInput{JobID: "job-1"})
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("expected CONFLICT for closed job, got %v", err)
	}
}

func TestUpdateStatus_OtherRecruitersJob(t *testing.T) {
	f := newAppFixture()
	f.addJob("job-1", "hr-1", models.JobActive)
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, "cand-1", ApplyInput{JobID: "job-1"})
	if err != nil {
		t.Fatal(err)
	}

	err = f.svc.UpdateStatus(ctx, "hr-2", app.ID, models.ApplicationShortlisted)
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}

	if err := f.svc.UpdateStatus(ctx, "hr-1", app.ID, models.ApplicationShortlisted); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if got := f.apps.apps[app.ID].Status; got != models.ApplicationShortlisted {
		t.Fatalf("status = %q", got)
	}
}

func TestHRStats(t *testing.T) {
	f := newAppFixture()
	f.addJob("job-1", "hr-1", models.JobActive)
	f.addJob("job-2", "hr-1", models.JobClosed)
	f.addJob("job-3", "hr-2", models.JobActive)
	ctx := context.Background()

	a1, _ := f.svc.Apply(ctx, "cand-1", ApplyInput{JobID: "job-1"})
	_, _ = f.svc.Apply(ctx, "cand-2", ApplyInput{JobID: "job-1"})
	_, _ = f.svc.Apply(ctx, "cand-1", ApplyInput{JobID: "job-3"})
	if err := f.svc.UpdateStatus(ctx, "hr-1", a1.ID, models.ApplicationShortlisted); err != nil {
		t.Fatal(err)
	}

	stats, err := f.svc.HRStats(ctx, "hr-1")
	if err != nil {
		t.Fatalf("HRStats: %v", err)
	}
	want := HRStats{ActiveJobs: 1, TotalApplications: 2, PendingReview: 1, Shortlisted: 1}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}
}

func TestCandidateStats(t *testing.T) {
	f := newAppFixture()
	f.addJob("job-1", "hr-1", models.JobActive)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, "cand-1", ApplyInput{JobID: "job-1"}); err != nil {
		t.Fatal(err)
	}
	f.sessions.sessions["s1"] = &models.InterviewSession{SessionID: "s1", UserID: "cand-1", Status: models.SessionCompleted}
	f.profiles.profiles["cand-1"] = &models.CandidateProfile{UserID: "cand-1"}

	stats, err := f.svc.CandidateStats(ctx, "cand-1")
	if err != nil {
		t.Fatalf("CandidateStats: %v", err)
	}
	want := CandidateStats{Applications: 1, Interviews: 1, CodingChallenges: 0, ResumeAnalyzed: true}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}
}
