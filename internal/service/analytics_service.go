package service

import (
	"errors"
	"fmt"

	"github.com/biolink/internal/db"
	"gorm.io/gorm"
)

// AnalyticsService 负责 profile 浏览量与链接点击的统计逻辑。
// Counters are bumped with relative UPDATEs so concurrent requests never lose increments.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 创建 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// LinkStat describes the click count of one link.
type LinkStat struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Clicks uint64 `json:"clicks"`
}

// Stats 汇总 owner 的浏览量与点击量。
type Stats struct {
	TotalViews  uint64     `json:"totalViews"`
	TotalClicks uint64     `json:"totalClicks"`
	Links       []LinkStat `json:"links"`
}

// RecordView increments the profile view counter by one.
// updated_at is left alone: a view is not an edit of the document.
func (s *AnalyticsService) RecordView(profileID uint) error {
	result := s.db.Model(&db.Profile{}).
		Where("id = ?", profileID).
		UpdateColumn("total_views", gorm.Expr("total_views + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("record view: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordClick increments the click counter of the link linkID owned by username.
// It reports whether a counter moved; an unknown pair is not an error.
func (s *AnalyticsService) RecordClick(username, linkID string) (bool, error) {
	owner := s.db.Model(&db.Profile{}).Select("id").Where("username = ?", username)

	result := s.db.Model(&db.Link{}).
		Where("id = ? AND profile_id = (?)", linkID, owner).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if result.Error != nil {
		return false, fmt.Errorf("record click: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Stats returns total views, total clicks over all links (active or not) and per-link clicks.
func (s *AnalyticsService) Stats(ownerID uint) (Stats, error) {
	var profile db.Profile
	if err := s.db.Select("id", "total_views").First(&profile, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Stats{}, ErrNotFound
		}
		return Stats{}, fmt.Errorf("load stats: %w", err)
	}

	var links []db.Link
	if err := s.db.Select("id", "title", "clicks").
		Where("profile_id = ?", ownerID).
		Order("seq ASC").
		Find(&links).Error; err != nil {
		return Stats{}, fmt.Errorf("load link stats: %w", err)
	}

	stats := Stats{
		TotalViews: profile.TotalViews,
		Links:      make([]LinkStat, 0, len(links)),
	}
	for _, link := range links {
		stats.TotalClicks += link.Clicks
		stats.Links = append(stats.Links, LinkStat{ID: link.ID, Title: link.Title, Clicks: link.Clicks})
	}
	return stats, nil
}
