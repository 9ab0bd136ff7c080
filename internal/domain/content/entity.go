package content

import "time"

// Entry is one editable value addressed by (page, section, key). The value is
// opaque to the store: plain text or a JSON document encoded by the caller.
type Entry struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Page      string    `gorm:"column:page;size:50;not null;uniqueIndex:idx_content_key" json:"page"`
	Section   string    `gorm:"column:section;size:50;not null;uniqueIndex:idx_content_key" json:"section"`
	Key       string    `gorm:"column:key;size:100;not null;uniqueIndex:idx_content_key" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Entry) TableName() string { return "content" }
