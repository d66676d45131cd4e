package db

import "time"

// Link is an entry of the profile's ordered link list.
// Seq records insertion position and breaks ties between equal Order values.
// Order 值越小越靠前
type Link struct {
	Seq       uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ID        string    `gorm:"size:36;uniqueIndex;not null" json:"id"`
	ProfileID uint      `gorm:"index;not null" json:"-"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	URL       string    `gorm:"size:2048;not null" json:"url"`
	Icon      string    `gorm:"size:255" json:"icon"`
	Active    bool      `json:"active"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	Clicks    uint64    `gorm:"not null;default:0" json:"clicks"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 返回自定义表名，避免冲突
func (Link) TableName() string {
	return "profile_links"
}
