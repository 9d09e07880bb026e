package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Course is a catalog entry. Content holds the JSON-encoded ContentBlocks.
type Course struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Locale    string         `gorm:"column:locale;not null;default:'en';index" json:"locale"`
	SortOrder int            `gorm:"column:sort_order;not null;default:0;index" json:"order"`
	IconURL   string         `gorm:"column:icon_url" json:"icon_url,omitempty"`
	Content   datatypes.JSON `gorm:"column:content" json:"-"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// Blocks decodes Content. An empty column decodes to no blocks.
func (c *Course) Blocks() (ContentBlocks, error) {
	var out ContentBlocks
	if c == nil || len(c.Content) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(c.Content, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Course) SetBlocks(blocks ContentBlocks) error {
	if blocks == nil {
		blocks = ContentBlocks{}
	}
	raw, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	c.Content = datatypes.JSON(raw)
	return nil
}

// CourseSummary is the slice of a course embedded in progress responses.
type CourseSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Locale    string    `json:"locale"`
	IconURL   string    `json:"icon_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) Summary() *CourseSummary {
	if c == nil {
		return nil
	}
	return &CourseSummary{
		ID:        c.ID,
		Title:     c.Title,
		Order:     c.SortOrder,
		Locale:    c.Locale,
		IconURL:   c.IconURL,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
