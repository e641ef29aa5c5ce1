package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/config"
	"github.com/incadev/coreadmin/internal/models"
)

var (
	// ErrInvalidCredentials is returned for a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountBlocked is returned when the account is blocked. The block
	// carried alongside has the reason and remaining time to show the user.
	ErrAccountBlocked = errors.New("account is blocked")
	// ErrAccountDisabled is returned for disabled accounts.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService verifies credentials and issues session tokens. It is the
// login-path collaborator of the enforcement engine: every attempt is
// reported through the facade, and the block check runs before credential
// verification.
type AuthService struct {
	db          *gorm.DB
	enforcement *EnforcementService
	cfg         config.Config
}

// NewAuthService returns an AuthService using the provided DB and facade.
func NewAuthService(db *gorm.DB, enforcement *EnforcementService, cfg config.Config) *AuthService {
	return &AuthService{db: db, enforcement: enforcement, cfg: cfg}
}

// LoginResult carries the issued token, or the block when login is denied
// because the account is blocked.
type LoginResult struct {
	Token string
	User  *models.User
	Block *models.UserBlock
}

// Login verifies credentials for the account, consulting the block ledger
// first and recording the attempt either way. A blocked account returns
// ErrAccountBlocked with the block attached to the result; callers render
// its reason and remaining time, never internal error detail.
func (s *AuthService) Login(email, password, ip, userAgent string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No account to attribute the attempt to; record it by address.
			s.enforcement.RecordUnknownLoginFailure(ip, userAgent)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	blocked, block, err := s.enforcement.IsBlocked(user.ID)
	if err != nil {
		return nil, fmt.Errorf("check block state: %w", err)
	}
	if blocked {
		event := &models.SecurityEvent{
			UserID:    &user.ID,
			EventType: models.EventLoginWhileBlocked,
			Severity:  models.SeverityWarning,
			IPAddress: ip,
			UserAgent: userAgent,
		}
		_, _ = s.enforcement.events.Append(event)
		return &LoginResult{Block: block}, ErrAccountBlocked
	}

	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	if !user.CheckPassword(password) {
		result := s.enforcement.RecordFailedLogin(user.ID, ip, userAgent)
		if result.Blocked {
			return &LoginResult{Block: result.Block}, ErrAccountBlocked
		}
		return nil, ErrInvalidCredentials
	}

	s.enforcement.RecordSuccessfulLogin(user.ID, ip, userAgent)

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{Token: token, User: &user}, nil
}

// Claims are the JWT claims carried by issued session tokens.
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionDuration())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ParseToken validates a session token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Register creates a new account with a hashed password.
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	user := &models.User{
		UUID:    uuid.NewString(),
		Email:   email,
		Name:    name,
		Enabled: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUserByID loads one user.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

// ChangePassword verifies the old password before setting the new one and
// appends a password_changed event.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	event := &models.SecurityEvent{
		UserID:    &userID,
		EventType: models.EventPasswordChanged,
	}
	_, _ = s.enforcement.events.Append(event)
	return nil
}
