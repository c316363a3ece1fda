package models

import "time"

// SettingID is the primary key of the single settings row.
const SettingID = "default"

// Setting holds process-wide settings, currently just the generative AI key.
// There is exactly one row.
type Setting struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	GoogleAIKey string `gorm:"column:google_ai_api_key;size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
