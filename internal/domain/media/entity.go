package media

import "time"

// Asset is the metadata record of one uploaded blob. Filename is the
// generated storage name inside the upload directory, never the user's name.
type Asset struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Filename     string    `gorm:"column:filename;size:255;not null;uniqueIndex" json:"filename"`
	OriginalName string    `gorm:"column:original_name;size:255;not null" json:"original_name"`
	FileType     string    `gorm:"column:file_type;size:50;not null" json:"file_type"` // lower-case extension, ".png"
	FileSize     int64     `gorm:"column:file_size;not null" json:"file_size"`
	URL          string    `gorm:"column:url;size:500;not null" json:"url"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;not null;index" json:"uploaded_at"`
}

func (Asset) TableName() string { return "media" }

// Stats summarises the library for the dashboard.
type Stats struct {
	Count     int64 `json:"media_files"`
	TotalSize int64 `json:"total_size"`
}
