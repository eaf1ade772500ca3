package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/mailer"
)

// same character class the signup form always allowed
var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254
)

// Claims is what a verified access token asserts about the actor.
type Claims struct {
	UserID    string
	Username  string
	Role      models.Role
	Superuser bool
}

type AuthService interface {
	// RequestSignup gets-or-creates the user and mails a fresh single-use
	// confirmation code. The returned user is identical whether or not the
	// record pre-existed.
	RequestSignup(username, email string) (*models.User, error)
	// ObtainToken exchanges a confirmation code for a bearer access token.
	ObtainToken(username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codeRepo       repository.ConfirmationCodeRepository
	sender         mailer.Sender
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.ConfirmationCodeRepository,
	sender mailer.Sender,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeRepo:       codeRepo,
		sender:         sender,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
	}
}

func validateSignup(username, email string) error {
	if username == "me" {
		return apperr.Validation(`username "me" is reserved`)
	}
	if username == email {
		return apperr.Validation("username and email must differ")
	}
	if len(username) > maxUsernameLen {
		return apperr.Validationf("username exceeds %d characters", maxUsernameLen)
	}
	if len(email) > maxEmailLen {
		return apperr.Validationf("email exceeds %d characters", maxEmailLen)
	}
	if !usernameRegex.MatchString(username) {
		return apperr.Validation("username contains invalid characters")
	}
	return nil
}

func (s *authService) RequestSignup(username, email string) (*models.User, error) {
	if err := validateSignup(username, email); err != nil {
		return nil, err
	}

	user, err := s.getOrCreateUser(username, email)
	if err != nil {
		return nil, err
	}

	// signup traffic doubles as the sweep for codes past their TTL
	if err := s.codeRepo.DeleteExpired(); err != nil {
		return nil, apperr.Internal(err)
	}

	// one usable code per user at a time
	if err := s.codeRepo.InvalidateForUser(user.ID); err != nil {
		return nil, apperr.Internal(err)
	}

	code := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	record := &models.ConfirmationCode{
		UserID:    user.ID,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(s.codeTTL),
	}
	if err := s.codeRepo.Create(record); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := s.sender.SendConfirmationCode(user.Email, code); err != nil {
		return nil, apperr.Internal(fmt.Errorf("dispatch confirmation code: %w", err))
	}

	return user, nil
}

// getOrCreateUser is idempotent for a matching (username, email) pairing and
// rejects any pairing that collides with a different existing record.
func (s *authService) getOrCreateUser(username, email string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err == nil {
		if user.Email != email {
			return nil, apperr.Conflict("username already taken")
		}
		return user, nil
	}
	if !repository.IsNotFound(err) {
		return nil, apperr.Internal(err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperr.Conflict("email already in use")
	} else if !repository.IsNotFound(err) {
		return nil, apperr.Internal(err)
	}

	user = &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		// unique constraint wins on a signup race
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("username or email already taken")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *authService) ObtainToken(username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", apperr.NotFound("user not found")
		}
		return "", apperr.Internal(err)
	}

	record, err := s.codeRepo.LatestActive(user.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", apperr.Auth("invalid or expired confirmation code")
		}
		return "", apperr.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		return "", apperr.Auth("invalid or expired confirmation code")
	}

	// atomic mark-and-check: a replay losing this update gets rejected
	if err := s.codeRepo.Consume(record.ID); err != nil {
		if errors.Is(err, repository.ErrCodeConsumed) {
			return "", apperr.Auth("confirmation code already used")
		}
		return "", apperr.Internal(err)
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"role":      string(user.Role),
		"superuser": user.Superuser,
		"exp":       time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":       time.Now().Unix(),
		"type":      "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperr.Internal(err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Auth("invalid token claims")
	}

	claims := &Claims{}
	if v, ok := mapClaims["user_id"].(string); ok {
		claims.UserID = v
	}
	if v, ok := mapClaims["username"].(string); ok {
		claims.Username = v
	}
	if v, ok := mapClaims["role"].(string); ok {
		claims.Role = models.Role(v)
	}
	if v, ok := mapClaims["superuser"].(bool); ok {
		claims.Superuser = v
	}
	if claims.UserID == "" {
		return nil, apperr.Auth("invalid token claims")
	}

	return claims, nil
}
