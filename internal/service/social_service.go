package service

import (
	"fmt"
	"strings"

	"github.com/biolink/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocialService replaces the owner's social icon list.
type SocialService struct {
	db *gorm.DB
}

// NewSocialService 构造 SocialService
func NewSocialService(gdb *gorm.DB) *SocialService {
	return &SocialService{db: gdb}
}

// SocialInput is one entry of the desired social list.
// Active 为 nil 时默认展示
type SocialInput struct {
	ID       string
	Platform string
	URL      string
	Active   *bool
}

// ReplaceSocials swaps the whole social list for socials, in the given order.
func (s *SocialService) ReplaceSocials(ownerID uint, socials []SocialInput) (*db.Profile, error) {
	rows := make([]db.Social, 0, len(socials))
	seen := make(map[string]struct{}, len(socials))
	for i, input := range socials {
		platform := strings.TrimSpace(input.Platform)
		url := strings.TrimSpace(input.URL)
		if platform == "" {
			return nil, fmt.Errorf("%w: socials[%d].platform is required", ErrValidation, i)
		}
		if url == "" {
			return nil, fmt.Errorf("%w: socials[%d].url is required", ErrValidation, i)
		}

		active := true
		if input.Active != nil {
			active = *input.Active
		}

		rows = append(rows, db.Social{
			ID:        socialID(input.ID, seen),
			ProfileID: ownerID,
			Platform:  platform,
			URL:       url,
			Active:    active,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, ownerID); err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", ownerID).Delete(&db.Social{}).Error; err != nil {
			return fmt.Errorf("replace socials: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("replace socials: %w", err)
			}
		}
		if err := touchProfile(tx, ownerID); err != nil {
			return fmt.Errorf("replace socials: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loadProfile(s.db, "id = ?", ownerID)
}

// socialID keeps a caller supplied id when it is a well-formed, unused uuid.
func socialID(candidate string, seen map[string]struct{}) string {
	id := strings.TrimSpace(candidate)
	if parsed, err := uuid.Parse(id); err == nil {
		id = parsed.String()
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			return id
		}
	}

	id = uuid.NewString()
	seen[id] = struct{}{}
	return id
}
