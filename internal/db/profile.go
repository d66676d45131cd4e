package db

import (
	"time"

	"gorm.io/datatypes"
)

// ReservedUsername collides with the admin route namespace and never resolves publicly.
const ReservedUsername = "admin"

// Profile is the single owner document of a deployment.
// Links and socials are owned rows that cascade with the profile.
type Profile struct {
	ID              uint                      `gorm:"primaryKey" json:"id"`
	Username        string                    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash    string                    `gorm:"not null" json:"-"`
	DisplayName     string                    `gorm:"size:120" json:"displayName"`
	Bio             string                    `gorm:"type:text" json:"bio"`
	Avatar          string                    `gorm:"size:255" json:"avatar"`
	CoverImage      string                    `gorm:"size:255" json:"coverImage"`
	Theme           datatypes.JSONType[Theme] `json:"theme"`
	Links           []Link                    `gorm:"constraint:OnDelete:CASCADE" json:"links"`
	Socials         []Social                  `gorm:"constraint:OnDelete:CASCADE" json:"socials"`
	MetaTitle       string                    `gorm:"size:160" json:"metaTitle"`
	MetaDescription string                    `gorm:"size:320" json:"metaDescription"`
	TotalViews      uint64                    `gorm:"not null;default:0" json:"totalViews"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// TableName 返回自定义表名
func (Profile) TableName() string {
	return "profiles"
}
