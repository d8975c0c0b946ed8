package models

import "time"

const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationAccepted    = "accepted"
)

type Application struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;index:idx_candidate_job,unique" json:"candidate_id"`
	JobID       string `gorm:"column:job_id;type:uuid;index:idx_candidate_job,unique" json:"job_id"`

	CoverLetter string `gorm:"column:cover_letter;type:text" json:"cover_letter"`

	ResumeFileName string `gorm:"column:resume_file_name;type:text" json:"resume_file_name,omitempty"`
	ResumePath     string `gorm:"column:resume_path;type:text" json:"resume_path,omitempty"` // GCS object key

	Status string `gorm:"column:status;type:text;index" json:"status"` // pending|shortlisted|rejected|accepted

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Application) TableName() string { return "applications" }
