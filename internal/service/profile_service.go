package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/biolink/internal/db"
	"github.com/biolink/internal/logging"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileService 负责维护 owner 的 profile 文档：基本信息、主题、图片与公开视图。
type ProfileService struct {
	db        *gorm.DB
	analytics *AnalyticsService
	media     *MediaService
	log       *slog.Logger
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB, analytics *AnalyticsService, media *MediaService, log *slog.Logger) *ProfileService {
	if log == nil {
		log = logging.Discard()
	}
	return &ProfileService{db: gdb, analytics: analytics, media: media, log: log}
}

// BasicInfoInput 描述可部分更新的基本信息，nil 字段保持不变
type BasicInfoInput struct {
	DisplayName     *string
	Bio             *string
	MetaTitle       *string
	MetaDescription *string
}

// ThemeInput is a full theme replacement; nil fields take the default value.
type ThemeInput struct {
	BackgroundColor    *string
	CardColor          *string
	PrimaryColor       *string
	SecondaryColor     *string
	TextColor          *string
	SubtextColor       *string
	FontFamily         *string
	ButtonStyle        *string
	BackgroundStyle    *string
	BackgroundGradient *string
	BackgroundImage    *string
	AnimationEnabled   *bool
}

// GetFullProfile returns the admin view of the owner's profile.
func (s *ProfileService) GetFullProfile(ownerID uint) (*db.Profile, error) {
	return loadProfile(s.db, "id = ?", ownerID)
}

// GetPublicProfile returns the public projection of username and counts the view.
// A failed view increment is logged and never fails the read.
func (s *ProfileService) GetPublicProfile(username string) (*PublicProfile, error) {
	const op = "service.profile.GetPublicProfile"

	username = strings.TrimSpace(username)
	if username == "" || username == db.ReservedUsername {
		return nil, ErrNotFound
	}

	profile, err := loadProfile(s.db, "username = ?", username)
	if err != nil {
		return nil, err
	}

	if err := s.analytics.RecordView(profile.ID); err != nil {
		s.log.Warn("failed to record profile view",
			slog.String("op", op),
			slog.String("username", username),
			logging.Err(err),
		)
	}

	public := Project(profile)
	return &public, nil
}

// UpdateBasicInfo applies a partial update of the presentation and SEO fields.
func (s *ProfileService) UpdateBasicInfo(ownerID uint, input BasicInfoInput) (*db.Profile, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.MetaTitle != nil {
		updates["meta_title"] = strings.TrimSpace(*input.MetaTitle)
	}
	if input.MetaDescription != nil {
		updates["meta_description"] = strings.TrimSpace(*input.MetaDescription)
	}

	if err := s.updateProfile(ownerID, updates); err != nil {
		return nil, fmt.Errorf("update basic info: %w", err)
	}
	return s.GetFullProfile(ownerID)
}

// UpdateTheme replaces the whole theme after validating the enum fields.
func (s *ProfileService) UpdateTheme(ownerID uint, input ThemeInput) (*db.Profile, error) {
	theme, err := buildTheme(input)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"theme":      datatypes.NewJSONType(theme),
		"updated_at": time.Now(),
	}
	if err := s.updateProfile(ownerID, updates); err != nil {
		return nil, fmt.Errorf("update theme: %w", err)
	}
	return s.GetFullProfile(ownerID)
}

// SetAvatar stores the uploaded image and records its URL as the avatar.
// The previous file stays on disk.
func (s *ProfileService) SetAvatar(ownerID uint, upload ImageUpload) (string, error) {
	return s.setImage(ownerID, ImageKindAvatar, "avatar", upload)
}

// SetCoverImage stores the uploaded image and records its URL as the cover.
func (s *ProfileService) SetCoverImage(ownerID uint, upload ImageUpload) (string, error) {
	return s.setImage(ownerID, ImageKindCover, "cover_image", upload)
}

func (s *ProfileService) setImage(ownerID uint, kind ImageKind, column string, upload ImageUpload) (string, error) {
	if _, err := s.GetFullProfile(ownerID); err != nil {
		return "", err
	}

	url, err := s.media.SaveImage(kind, upload)
	if err != nil {
		return "", err
	}

	updates := map[string]interface{}{column: url, "updated_at": time.Now()}
	if err := s.updateProfile(ownerID, updates); err != nil {
		return "", fmt.Errorf("set %s: %w", kind, err)
	}
	return url, nil
}

func (s *ProfileService) updateProfile(ownerID uint, updates map[string]interface{}) error {
	result := s.db.Model(&db.Profile{}).Where("id = ?", ownerID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func buildTheme(input ThemeInput) (db.Theme, error) {
	theme := db.DefaultTheme()

	setString(&theme.BackgroundColor, input.BackgroundColor)
	setString(&theme.CardColor, input.CardColor)
	setString(&theme.PrimaryColor, input.PrimaryColor)
	setString(&theme.SecondaryColor, input.SecondaryColor)
	setString(&theme.TextColor, input.TextColor)
	setString(&theme.SubtextColor, input.SubtextColor)
	setString(&theme.FontFamily, input.FontFamily)
	setString(&theme.BackgroundGradient, input.BackgroundGradient)
	setString(&theme.BackgroundImage, input.BackgroundImage)

	if input.ButtonStyle != nil {
		style := *input.ButtonStyle
		if !slices.Contains(db.ButtonStyles(), style) {
			return db.Theme{}, fmt.Errorf("%w: buttonStyle must be one of %s", ErrValidation, strings.Join(db.ButtonStyles(), ", "))
		}
		theme.ButtonStyle = style
	}
	if input.BackgroundStyle != nil {
		style := *input.BackgroundStyle
		if !slices.Contains(db.BackgroundStyles(), style) {
			return db.Theme{}, fmt.Errorf("%w: backgroundStyle must be one of %s", ErrValidation, strings.Join(db.BackgroundStyles(), ", "))
		}
		theme.BackgroundStyle = style
	}
	if input.AnimationEnabled != nil {
		theme.AnimationEnabled = *input.AnimationEnabled
	}

	return theme, nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

// loadProfile fetches one profile with its links and socials in insertion order.
func loadProfile(tx *gorm.DB, query string, arg interface{}) (*db.Profile, error) {
	var profile db.Profile
	err := tx.
		Preload("Links", func(q *gorm.DB) *gorm.DB { return q.Order("seq ASC") }).
		Preload("Socials", func(q *gorm.DB) *gorm.DB { return q.Order("seq ASC") }).
		Where(query, arg).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if profile.Links == nil {
		profile.Links = []db.Link{}
	}
	if profile.Socials == nil {
		profile.Socials = []db.Social{}
	}
	return &profile, nil
}

// touchProfile refreshes updated_at after a change to an owned sub-collection.
func touchProfile(tx *gorm.DB, ownerID uint) error {
	return tx.Model(&db.Profile{}).Where("id = ?", ownerID).UpdateColumn("updated_at", time.Now()).Error
}
