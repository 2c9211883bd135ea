package models

import (
	"time"

	"github.com/lib/pq"
)

// Questions is the technical/behavioral pair returned to clients.
type Questions struct {
	Technical  []string `json:"technical"`
	Behavioral []string `json:"behavioral"`
}

// All returns technical questions followed by behavioral ones.
func (q Questions) All() []string {
	out := make([]string, 0, len(q.Technical)+len(q.Behavioral))
	out = append(out, q.Technical...)
	return append(out, q.Behavioral...)
}

func (q Questions) Empty() bool {
	return len(q.Technical) == 0 && len(q.Behavioral) == 0
}

// QuestionSet is the persisted form, unique per (job_id, resume_id).
// ResumeID is empty when the set was generated from the job alone.
type QuestionSet struct {
	ID         string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	JobID      string         `gorm:"column:job_id;type:uuid;uniqueIndex:uniq_job_resume" json:"job_id"`
	ResumeID   string         `gorm:"column:resume_id;type:text;uniqueIndex:uniq_job_resume" json:"resume_id,omitempty"`
	Technical  pq.StringArray `gorm:"column:technical;type:text[]" json:"technical"`
	Behavioral pq.StringArray `gorm:"column:behavioral;type:text[]" json:"behavioral"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (QuestionSet) TableName() string { return "question_sets" }

func (s QuestionSet) Questions() Questions {
	return Questions{Technical: []string(s.Technical), Behavioral: []string(s.Behavioral)}
}
