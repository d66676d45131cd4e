package db

// Social 用于保存前台展示的社交平台链接
// Platform 为前端图标标识，例如 instagram、github
// Active 标记是否在公开页展示
type Social struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ID        string `gorm:"size:36;uniqueIndex;not null" json:"id"`
	ProfileID uint   `gorm:"index;not null" json:"-"`
	Platform  string `gorm:"size:50;not null" json:"platform"`
	URL       string `gorm:"size:2048;not null" json:"url"`
	Active    bool   `json:"active"`
}

// TableName 返回自定义表名，避免冲突
func (Social) TableName() string {
	return "profile_socials"
}
