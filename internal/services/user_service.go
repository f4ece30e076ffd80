package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

var timeOfDayRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// SignupInput is the registration request body.
type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
}

// ProfileInput is the profile update request body. Nil fields are left
// unchanged.
type ProfileInput struct {
	FullName          *string `json:"full_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	Age               *int    `json:"age"`
	Bedtime           *string `json:"bedtime"`
	WakeTime          *string `json:"wake_time"`
	DreamReminders    *bool   `json:"dream_reminders"`
	Notifications     *bool   `json:"notifications"`
	DarkTheme         *bool   `json:"dark_theme"`
}

// ProfileView is the profile response, with preferences decoded and
// defaults filled in.
type ProfileView struct {
	ID                uuid.UUID          `json:"id"`
	Email             string             `json:"email"`
	FullName          string             `json:"full_name"`
	ProfilePictureURL string             `json:"profile_picture_url"`
	IsPremium         bool               `json:"is_premium"`
	Preferences       models.Preferences `json:"preferences"`
	CreatedAt         time.Time          `json:"created_at"`
}

// UserService handles accounts, credentials and profile preferences.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Signup registers a new account with a bcrypt-hashed password.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := toProfileView(user)
	return &view, nil
}

// UpdateProfile applies the non-nil fields after validating them.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileView, error) {
	if err := validateProfileInput(input); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs := decodePreferences(user.Preferences)
	if input.Age != nil {
		prefs.Age = input.Age
	}
	if input.Bedtime != nil {
		prefs.Bedtime = *input.Bedtime
	}
	if input.WakeTime != nil {
		prefs.WakeTime = *input.WakeTime
	}
	if input.DreamReminders != nil {
		prefs.DreamReminders = input.DreamReminders
	}
	if input.Notifications != nil {
		prefs.Notifications = input.Notifications
	}
	if input.DarkTheme != nil {
		prefs.DarkTheme = input.DarkTheme
	}

	encoded, err := json.Marshal(prefs)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"preferences": datatypes.JSON(encoded)}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *input.ProfilePictureURL
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

// SetPremium flips the user's premium flag and returns the updated user.
func (s *UserService) SetPremium(ctx context.Context, userID uuid.UUID, premium bool) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("is_premium", premium).Error; err != nil {
		return nil, err
	}
	user.IsPremium = premium
	return user, nil
}

func validateProfileInput(input ProfileInput) error {
	if input.Age != nil && (*input.Age < 13 || *input.Age > 120) {
		return ValidationError("Age must be between 13 and 120")
	}
	if input.Bedtime != nil && !timeOfDayRegex.MatchString(*input.Bedtime) {
		return ValidationError("Bedtime must use the HH:mm format")
	}
	if input.WakeTime != nil && !timeOfDayRegex.MatchString(*input.WakeTime) {
		return ValidationError("Wake time must use the HH:mm format")
	}
	if input.FullName != nil && (len(*input.FullName) < 2 || len(*input.FullName) > 100) {
		return ValidationError("Full name must be between 2 and 100 characters")
	}
	return nil
}

func decodePreferences(raw datatypes.JSON) models.Preferences {
	prefs := models.Preferences{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &prefs)
	}
	return prefs
}

func toProfileView(user *models.User) ProfileView {
	return ProfileView{
		ID:                user.ID,
		Email:             user.Email,
		FullName:          user.FullName,
		ProfilePictureURL: user.ProfilePictureURL,
		IsPremium:         user.IsPremium,
		Preferences:       decodePreferences(user.Preferences),
		CreatedAt:         user.CreatedAt,
	}
}
