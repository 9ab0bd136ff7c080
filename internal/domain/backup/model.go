package backup

import (
	"time"

	"portfoliocms/internal/domain/casestudy"
	"portfoliocms/internal/domain/media"
)

const (
	snapshotPrefix = "backup_"
	exportPrefix   = "export_"
	stampLayout    = "20060102_150405"

	databaseFile = "database.db"
	uploadsDir   = "uploads"
	infoFile     = "backup_info.json"
)

// Info is written next to each snapshot as backup_info.json.
type Info struct {
	CreatedAt    time.Time `json:"created_at"`
	User         string    `json:"user"`
	Files        int       `json:"files"`
	DatabaseSize int64     `json:"database_size"`
}

// Snapshot is a finished backup directory.
type Snapshot struct {
	Name string `json:"name"`
	Path string `json:"backup_path"`
	Info
	OffsiteKey string `json:"offsite_key,omitempty"`
}

// Document is the layout of an export file.
type Document struct {
	ExportedAt  time.Time                               `json:"exported_at"`
	Content     map[string]map[string]map[string]string `json:"content"`
	CaseStudies []CaseStudyRecord                       `json:"case_studies"`
	Media       []MediaRecord                           `json:"media"`
}

type CaseStudyRecord struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MediaRecord struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	URL          string    `json:"url"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func caseStudyRecord(cs *casestudy.CaseStudy) CaseStudyRecord {
	return CaseStudyRecord{
		Slug:        cs.Slug,
		Title:       cs.Title,
		Description: cs.Description,
		Content:     cs.Content,
		Status:      string(cs.Status),
		CreatedAt:   cs.CreatedAt,
		UpdatedAt:   cs.UpdatedAt,
	}
}

func mediaRecord(a *media.Asset) MediaRecord {
	return MediaRecord{
		Filename:     a.Filename,
		OriginalName: a.OriginalName,
		FileType:     a.FileType,
		FileSize:     a.FileSize,
		URL:          a.URL,
		UploadedAt:   a.UploadedAt,
	}
}

// ExportResult points at a written export file.
type ExportResult struct {
	Path       string    `json:"export_path"`
	ExportedAt time.Time `json:"exported_at"`
	OffsiteKey string    `json:"offsite_key,omitempty"`
}
