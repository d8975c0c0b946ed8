package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	JobActive = "active"
	JobClosed = "closed"
)

type JobPost struct {
	ID          string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	HRID        string         `gorm:"column:hr_id;type:uuid;index" json:"hr_id"`
	Title       string         `gorm:"column:title;type:text" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Location    string         `gorm:"column:location;type:text" json:"location"`
	Skills      pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	Status      string         `gorm:"column:status;type:text;index" json:"status"` // active|closed

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (JobPost) TableName() string { return "job_posts" }
