package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/providers/resume"
	"github.com/nexhire/backend/internal/repositories/postgres"
	"github.com/nexhire/backend/internal/utils"
)

type ResumeAnalysis struct {
	MatchScore  float64  `json:"matchScore"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
	Skills      []string `json:"skills"`
}

type SimilarCandidate struct {
	UserID   string   `json:"userId"`
	FullName string   `json:"fullName"`
	Skills   []string `json:"skills"`
}

type ResumeService interface {
	AnalyzeAndStore(ctx context.Context, userID, fullName string, pdfData []byte, jobDescription string) (*ResumeAnalysis, error)
	GetProfile(ctx context.Context, userID string) (*models.CandidateProfile, error)
	SimilarCandidates(ctx context.Context, userID string, limit int) ([]SimilarCandidate, error)
}

type resumeService struct {
	profiles postgres.ProfileRepository
	client   *resume.Client
	log      *logrus.Logger
}

func NewResumeService(profiles postgres.ProfileRepository, client *resume.Client, log *logrus.Logger) ResumeService {
	if log == nil {
		log = logrus.New()
	}
	return &resumeService{profiles: profiles, client: client, log: log}
}

func (s *resumeService) AnalyzeAndStore(ctx context.Context, userID, fullName string, pdfData []byte, jobDescription string) (*ResumeAnalysis, error) {
	const op = "ResumeService.AnalyzeAndStore"

	if len(pdfData) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume file is required", nil)
	}

	text, err := extractPDFText(pdfData)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "could not read resume PDF", err)
	}

	result, err := s.client.Analyze(ctx, text, jobDescription)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "resume analysis service unavailable", err)
	}

	analysisJSON, err := json.Marshal(ResumeAnalysis{
		MatchScore:  result.MatchScore,
		Summary:     result.Summary,
		Suggestions: result.Suggestions,
		Skills:      result.Skills,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode analysis", err)
	}

	profile := &models.CandidateProfile{
		UserID:     userID,
		FullName:   fullName,
		ResumeText: text,
		Skills:     result.Skills,
		Analysis:   analysisJSON,
		UpdatedAt:  time.Now().UTC(),
	}
	if len(result.Embedding) > 0 {
		profile.ResumeEmbedding = pgvector.NewVector(result.Embedding)
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save candidate profile", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":     userID,
		"skill_count": len(result.Skills),
	}).Info("resume analyzed")

	return &ResumeAnalysis{
		MatchScore:  result.MatchScore,
		Summary:     result.Summary,
		Suggestions: result.Suggestions,
		Skills:      result.Skills,
	}, nil
}

func (s *resumeService) GetProfile(ctx context.Context, userID string) (*models.CandidateProfile, error) {
	const op = "ResumeService.GetProfile"

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	return p, nil
}

// SimilarCandidates ranks other candidates by resume embedding distance to
// the given user's resume.
func (s *resumeService) SimilarCandidates(ctx context.Context, userID string, limit int) ([]SimilarCandidate, error) {
	const op = "ResumeService.SimilarCandidates"

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}

	rows, err := s.profiles.SearchSimilar(ctx, p.ResumeEmbedding.Slice(), limit+1)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search similar candidates", err)
	}

	out := make([]SimilarCandidate, 0, len(rows))
	for _, r := range rows {
		if r.UserID == userID {
			continue
		}
		out = append(out, SimilarCandidate{UserID: r.UserID, FullName: r.FullName, Skills: r.Skills})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("no text content found in PDF")
	}
	return text, nil
}
