package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/biolink/internal/db"
	"github.com/biolink/internal/logging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkService manages the ordered link list nested in the owner's profile.
type LinkService struct {
	db        *gorm.DB
	analytics *AnalyticsService
	log       *slog.Logger
}

// NewLinkService 构造 LinkService
func NewLinkService(gdb *gorm.DB, analytics *AnalyticsService, log *slog.Logger) *LinkService {
	if log == nil {
		log = logging.Discard()
	}
	return &LinkService{db: gdb, analytics: analytics, log: log}
}

// LinkInput 描述新建链接时可设置的字段
type LinkInput struct {
	Title string
	URL   string
	Icon  string
}

// LinkUpdate 使用指针判断字段是否显式传入
type LinkUpdate struct {
	Title  *string
	URL    *string
	Icon   *string
	Active *bool
}

// LinkOrder assigns Order to the link with the given ID.
type LinkOrder struct {
	ID    string
	Order int
}

// AddLink appends an active link sorted after every existing one.
func (s *LinkService) AddLink(ownerID uint, input LinkInput) ([]db.Link, error) {
	title := strings.TrimSpace(input.Title)
	url := strings.TrimSpace(input.URL)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrValidation)
	}

	var links []db.Link
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, ownerID); err != nil {
			return err
		}

		order, err := nextLinkOrder(tx, ownerID)
		if err != nil {
			return err
		}

		link := db.Link{
			ID:        uuid.NewString(),
			ProfileID: ownerID,
			Title:     title,
			URL:       url,
			Icon:      strings.TrimSpace(input.Icon),
			Active:    true,
			Order:     order,
		}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("add link: %w", err)
		}
		if err := touchProfile(tx, ownerID); err != nil {
			return fmt.Errorf("add link: %w", err)
		}

		links, err = listLinks(tx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// UpdateLink changes only the supplied fields of a link owned by ownerID.
func (s *LinkService) UpdateLink(ownerID uint, linkID string, input LinkUpdate) ([]db.Link, error) {
	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		updates["title"] = title
	}
	if input.URL != nil {
		url := strings.TrimSpace(*input.URL)
		if url == "" {
			return nil, fmt.Errorf("%w: url cannot be empty", ErrValidation)
		}
		updates["url"] = url
	}
	if input.Icon != nil {
		updates["icon"] = strings.TrimSpace(*input.Icon)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	var links []db.Link
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var link db.Link
		if err := tx.Where("id = ? AND profile_id = ?", linkID, ownerID).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find link: %w", err)
		}

		if len(updates) > 0 {
			if err := tx.Model(&link).Updates(updates).Error; err != nil {
				return fmt.Errorf("update link: %w", err)
			}
			if err := touchProfile(tx, ownerID); err != nil {
				return fmt.Errorf("update link: %w", err)
			}
		}

		var err error
		links, err = listLinks(tx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// DeleteLink removes a link. Deleting an absent link is not an error.
func (s *LinkService) DeleteLink(ownerID uint, linkID string) ([]db.Link, error) {
	var links []db.Link
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, ownerID); err != nil {
			return err
		}

		result := tx.Where("id = ? AND profile_id = ?", linkID, ownerID).Delete(&db.Link{})
		if result.Error != nil {
			return fmt.Errorf("delete link: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			if err := touchProfile(tx, ownerID); err != nil {
				return fmt.Errorf("delete link: %w", err)
			}
		}

		var err error
		links, err = listLinks(tx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ReorderLinks applies each (id, order) pair; ids that do not belong to the owner are skipped.
func (s *LinkService) ReorderLinks(ownerID uint, orders []LinkOrder) ([]db.Link, error) {
	var links []db.Link
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, ownerID); err != nil {
			return err
		}

		for _, item := range orders {
			result := tx.Model(&db.Link{}).
				Where("id = ? AND profile_id = ?", item.ID, ownerID).
				Update("sort_order", item.Order)
			if result.Error != nil {
				return fmt.Errorf("reorder links: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				s.log.Debug("reorder skipped unknown link", slog.String("link_id", item.ID))
			}
		}
		if err := touchProfile(tx, ownerID); err != nil {
			return fmt.Errorf("reorder links: %w", err)
		}

		var err error
		links, err = listLinks(tx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// RecordClick counts a public click on linkID of username. It never fails:
// unknown pairs are ignored and storage errors are logged only.
func (s *LinkService) RecordClick(username, linkID string) {
	const op = "service.link.RecordClick"

	recorded, err := s.analytics.RecordClick(strings.TrimSpace(username), strings.TrimSpace(linkID))
	if err != nil {
		s.log.Error("failed to record link click",
			slog.String("op", op),
			slog.String("username", username),
			slog.String("link_id", linkID),
			logging.Err(err),
		)
		return
	}
	if !recorded {
		s.log.Debug("click target not found",
			slog.String("op", op),
			slog.String("username", username),
			slog.String("link_id", linkID),
		)
	}
}

// ListLinks returns the owner's links in insertion order.
func (s *LinkService) ListLinks(ownerID uint) ([]db.Link, error) {
	if err := ensureProfile(s.db, ownerID); err != nil {
		return nil, err
	}
	return listLinks(s.db, ownerID)
}

func listLinks(tx *gorm.DB, ownerID uint) ([]db.Link, error) {
	links := []db.Link{}
	if err := tx.Where("profile_id = ?", ownerID).Order("seq ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// nextLinkOrder returns max(order)+1, or 0 for the first link.
func nextLinkOrder(tx *gorm.DB, ownerID uint) (int, error) {
	var maxOrder int
	if err := tx.Model(&db.Link{}).
		Where("profile_id = ?", ownerID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxOrder).Error; err != nil {
		return 0, fmt.Errorf("resolve link order: %w", err)
	}
	return maxOrder + 1, nil
}

func ensureProfile(tx *gorm.DB, ownerID uint) error {
	var count int64
	if err := tx.Model(&db.Profile{}).Where("id = ?", ownerID).Count(&count).Error; err != nil {
		return fmt.Errorf("find profile: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
