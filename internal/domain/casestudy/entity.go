package casestudy

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// CaseStudy is a long-form portfolio entry addressed publicly by its slug.
type CaseStudy struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Slug        string    `gorm:"column:slug;size:100;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	Status      Status    `gorm:"column:status;size:20;not null;default:draft;index" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;index" json:"updated_at"`
}

func (CaseStudy) TableName() string { return "case_studies" }

// Input is the editable part of a case study, used for create and update.
type Input struct {
	Slug        string `json:"slug" validate:"required,max=100,slug"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Status      Status `json:"status" validate:"omitempty,oneof=draft published"`
}
