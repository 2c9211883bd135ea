package models

import "time"

type JobStatus string

const (
	JobSaved     JobStatus = "saved"
	JobApplied   JobStatus = "applied"
	JobInterview JobStatus = "interview"
	JobOffer     JobStatus = "offer"
	JobRejected  JobStatus = "rejected"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobSaved, JobApplied, JobInterview, JobOffer, JobRejected:
		return true
	}
	return false
}

type Job struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title       string    `gorm:"column:title;type:text;not null" json:"title"`
	Company     string    `gorm:"column:company;type:text;not null" json:"company"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	URL         string    `gorm:"column:url;type:text" json:"url"`
	Location    string    `gorm:"column:location;type:text" json:"location"`
	Status      JobStatus `gorm:"column:status;type:text;default:saved" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }
