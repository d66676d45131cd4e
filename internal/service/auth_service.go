package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/biolink/internal/auth"
	"github.com/biolink/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultHashCost is the bcrypt cost used for owner passwords.
const DefaultHashCost = 12

// AuthService owns the owner credentials and issues bearer tokens.
type AuthService struct {
	db       *gorm.DB
	tokens   *auth.Manager
	hashCost int
}

// RegisterInput describes the first and only owner account.
type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token   string
	Profile *db.Profile
}

// NewAuthService 构造 AuthService
func NewAuthService(gdb *gorm.DB, tokens *auth.Manager) *AuthService {
	return &AuthService{db: gdb, tokens: tokens, hashCost: DefaultHashCost}
}

// WithHashCost lowers the bcrypt cost, mainly for tests.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.hashCost = cost
	}
	return s
}

// Register creates the owner profile. It fails with ErrConflict once any
// profile exists, whatever credentials are supplied.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	exists, err := s.ownerExists(s.db)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if username == db.ReservedUsername {
		return nil, fmt.Errorf("%w: username %q is reserved", ErrValidation, username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	profile := db.Profile{
		Username:     username,
		PasswordHash: string(hashed),
		DisplayName:  displayName,
		Theme:        datatypes.NewJSONType(db.DefaultTheme()),
		Links:        []db.Link{},
		Socials:      []db.Social{},
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.ownerExists(tx)
		if err != nil {
			return err
		}
		if exists {
			return ErrConflict
		}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(profile.ID, profile.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, Profile: &profile}, nil
}

// Login verifies the credentials. Unknown usernames and wrong passwords
// both yield ErrUnauthorized.
func (s *AuthService) Login(username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	var profile db.Profile
	if err := s.db.Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	token, err := s.tokens.Issue(profile.ID, profile.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, Profile: &profile}, nil
}

// ChangePassword replaces the owner password after checking the current one.
func (s *AuthService) ChangePassword(ownerID uint, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: currentPassword and newPassword are required", ErrValidation)
	}

	var profile db.Profile
	if err := s.db.First(&profile, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("find profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrUnauthorized
	}

	return s.storePassword(profile.ID, newPassword)
}

// ResetPassword sets a new password for username without the current one.
// It backs the operator CLI and is not reachable over HTTP.
func (s *AuthService) ResetPassword(username, newPassword string) error {
	username = strings.TrimSpace(username)
	if username == "" || newPassword == "" {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	var profile db.Profile
	if err := s.db.Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find profile: %w", err)
	}

	return s.storePassword(profile.ID, newPassword)
}

// VerifyToken resolves a bearer token to the owner id.
func (s *AuthService) VerifyToken(token string) (uint, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims.OwnerID, nil
}

func (s *AuthService) storePassword(profileID uint, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Model(&db.Profile{}).Where("id = ?", profileID).Update("password_hash", string(hashed)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *AuthService) ownerExists(tx *gorm.DB) (bool, error) {
	var count int64
	if err := tx.Model(&db.Profile{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count profiles: %w", err)
	}
	return count > 0, nil
}
