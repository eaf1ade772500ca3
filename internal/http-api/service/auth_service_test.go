package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(username string) error {
	args := m.Called(username)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockConfirmationCodeRepository mocks the ConfirmationCodeRepository interface
type MockConfirmationCodeRepository struct {
	mock.Mock
}

func (m *MockConfirmationCodeRepository) Create(code *models.ConfirmationCode) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockConfirmationCodeRepository) LatestActive(userID string) (*models.ConfirmationCode, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConfirmationCode), args.Error(1)
}

func (m *MockConfirmationCodeRepository) Consume(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockConfirmationCodeRepository) InvalidateForUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockConfirmationCodeRepository) DeleteExpired() error {
	args := m.Called()
	return args.Error(0)
}

// fakeSender records the last code handed to it instead of touching SMTP.
type fakeSender struct {
	to   string
	code string
	err  error
}

func (f *fakeSender) SendConfirmationCode(to, code string) error {
	f.to = to
	f.code = code
	return f.err
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret-long-enough-for-hs256",
		AccessTokenTTL:      15 * time.Minute,
		ConfirmationCodeTTL: 24 * time.Hour,
	}
}

func TestRequestSignup_NewUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	sender := &fakeSender{}
	svc := NewAuthService(mockUserRepo, mockCodeRepo, sender, newTestConfig())

	mockUserRepo.On("FindByUsername", "reader").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "reader@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockCodeRepo.On("DeleteExpired").Return(nil)
	mockCodeRepo.On("InvalidateForUser", mock.AnythingOfType("string")).Return(nil)
	mockCodeRepo.On("Create", mock.AnythingOfType("*models.ConfirmationCode")).Return(nil)

	user, err := svc.RequestSignup("reader", "reader@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "reader", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "reader@example.com", sender.to)
	assert.NotEmpty(t, sender.code)
	mockUserRepo.AssertExpectations(t)
	mockCodeRepo.AssertExpectations(t)
}

func TestRequestSignup_ExistingPairIsIdempotent(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	sender := &fakeSender{}
	svc := NewAuthService(mockUserRepo, mockCodeRepo, sender, newTestConfig())

	existing := &models.User{ID: "user-id", Username: "reader", Email: "reader@example.com", Role: models.RoleUser}
	mockUserRepo.On("FindByUsername", "reader").Return(existing, nil)
	mockCodeRepo.On("DeleteExpired").Return(nil)
	mockCodeRepo.On("InvalidateForUser", "user-id").Return(nil)
	mockCodeRepo.On("Create", mock.AnythingOfType("*models.ConfirmationCode")).Return(nil)

	user, err := svc.RequestSignup("reader", "reader@example.com")

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.NotEmpty(t, sender.code)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockCodeRepo.AssertExpectations(t)
}

func TestRequestSignup_UsernameTakenWithDifferentEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	svc := NewAuthService(mockUserRepo, mockCodeRepo, &fakeSender{}, newTestConfig())

	existing := &models.User{Username: "reader", Email: "someone-else@example.com"}
	mockUserRepo.On("FindByUsername", "reader").Return(existing, nil)

	user, err := svc.RequestSignup("reader", "reader@example.com")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Nil(t, user)
}

func TestRequestSignup_EmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	svc := NewAuthService(mockUserRepo, mockCodeRepo, &fakeSender{}, newTestConfig())

	mockUserRepo.On("FindByUsername", "reader").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "reader@example.com").Return(&models.User{Username: "other"}, nil)

	user, err := svc.RequestSignup("reader", "reader@example.com")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Nil(t, user)
}

func TestRequestSignup_RejectsReservedUsername(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockConfirmationCodeRepository), &fakeSender{}, newTestConfig())

	user, err := svc.RequestSignup("me", "me@example.com")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Nil(t, user)
}

func TestRequestSignup_RejectsUsernameEqualEmail(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockConfirmationCodeRepository), &fakeSender{}, newTestConfig())

	user, err := svc.RequestSignup("same@example.com", "same@example.com")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Nil(t, user)
}

func TestRequestSignup_RejectsInvalidCharacters(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockConfirmationCodeRepository), &fakeSender{}, newTestConfig())

	user, err := svc.RequestSignup("bad user!", "reader@example.com")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Nil(t, user)
}

func TestObtainToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	svc := NewAuthService(mockUserRepo, mockCodeRepo, &fakeSender{}, newTestConfig())

	user := &models.User{ID: "user-id", Username: "reader", Role: models.RoleUser}
	hash, _ := bcrypt.GenerateFromPassword([]byte("the-code"), bcrypt.DefaultCost)
	record := &models.ConfirmationCode{
		ID:        "code-id",
		UserID:    "user-id",
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	mockUserRepo.On("FindByUsername", "reader").Return(user, nil)
	mockCodeRepo.On("LatestActive", "user-id").Return(record, nil)
	mockCodeRepo.On("Consume", "code-id").Return(nil)

	token, err := svc.ObtainToken("reader", "the-code")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	mockCodeRepo.AssertExpectations(t)
}

func TestObtainToken_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	svc := NewAuthService(mockUserRepo, mockCodeRepo, &fakeSender{}, newTestConfig())

	mockUserRepo.On("FindByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

	token, err := svc.ObtainToken("ghost", "whatever")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Empty(t, token)
}

func TestObtainToken_WrongCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	svc := NewAuthService(mockUserRepo, mockCodeRepo, &fakeSender{}, newTestConfig())

	user := &models.User{ID: "user-id", Username: "reader"}
	hash, _ := bcrypt.GenerateFromPassword([]byte("the-code"), bcrypt.DefaultCost)
	record := &models.ConfirmationCode{
		ID:        "code-id",
		UserID:    "user-id",
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	mockUserRepo.On("FindByUsername", "reader").Return(user, nil)
	mockCodeRepo.On("LatestActive", "user-id").Return(record, nil)

	token, err := svc.ObtainToken("reader", "not-the-code")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	assert.Empty(t, token)
	mockCodeRepo.AssertNotCalled(t, "Consume", mock.Anything)
}

func TestObtainToken_NoActiveCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	svc := NewAuthService(mockUserRepo, mockCodeRepo, &fakeSender{}, newTestConfig())

	user := &models.User{ID: "user-id", Username: "reader"}
	mockUserRepo.On("FindByUsername", "reader").Return(user, nil)
	mockCodeRepo.On("LatestActive", "user-id").Return(nil, gorm.ErrRecordNotFound)

	token, err := svc.ObtainToken("reader", "the-code")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	assert.Empty(t, token)
}

func TestObtainToken_ReplayedCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeRepo := new(MockConfirmationCodeRepository)
	svc := NewAuthService(mockUserRepo, mockCodeRepo, &fakeSender{}, newTestConfig())

	user := &models.User{ID: "user-id", Username: "reader"}
	hash, _ := bcrypt.GenerateFromPassword([]byte("the-code"), bcrypt.DefaultCost)
	record := &models.ConfirmationCode{
		ID:        "code-id",
		UserID:    "user-id",
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	mockUserRepo.On("FindByUsername", "reader").Return(user, nil)
	mockCodeRepo.On("LatestActive", "user-id").Return(record, nil)
	mockCodeRepo.On("Consume", "code-id").Return(repository.ErrCodeConsumed)

	token, err := svc.ObtainToken("reader", "the-code")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	assert.Empty(t, token)
	mockCodeRepo.AssertExpectations(t)
}

func TestValidateToken_SuperuserClaimSurvivesRoundTrip(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockConfirmationCodeRepository), &fakeSender{}, newTestConfig())

	user := &models.User{ID: "root-id", Username: "root", Role: models.RoleUser, Superuser: true}
	token, err := svc.(*authService).generateAccessToken(user)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.True(t, claims.Superuser)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockConfirmationCodeRepository), &fakeSender{}, newTestConfig())

	claims, err := svc.ValidateToken("invalid.token.here")

	assert.Error(t, err)
	assert.Nil(t, claims)
}
