package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(commentID int64) error {
	args := m.Called(commentID)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(commentID int64) (*models.Comment, error) {
	args := m.Called(commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByReview(reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func TestCommentCreate_Success(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	svc := NewCommentService(mockCommentRepo, mockReviewRepo)

	actor := plainActor()
	mockReviewRepo.On("GetByID", int64(42)).Return(&models.Review{ID: 42}, nil)
	mockCommentRepo.On("Create", mock.AnythingOfType("*models.Comment")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = 5
	})
	mockCommentRepo.On("GetByID", int64(5)).Return(&models.Comment{
		ID:       5,
		AuthorID: actor.ID,
		ReviewID: 42,
		Text:     "agreed",
		Author:   models.User{Username: "reader"},
	}, nil)

	resp, err := svc.Create(actor, 42, dto.CreateCommentDTO{Text: "agreed"})

	assert.NoError(t, err)
	assert.Equal(t, "agreed", resp.Text)
	assert.Equal(t, "reader", resp.Author)
	mockCommentRepo.AssertExpectations(t)
}

func TestCommentCreate_TextTooLong(t *testing.T) {
	svc := NewCommentService(new(MockCommentRepository), new(MockReviewRepository))

	resp, err := svc.Create(plainActor(), 42, dto.CreateCommentDTO{Text: strings.Repeat("x", 301)})

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Nil(t, resp)
}

func TestCommentCreate_ReviewMissing(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	svc := NewCommentService(mockCommentRepo, mockReviewRepo)

	mockReviewRepo.On("GetByID", int64(404)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := svc.Create(plainActor(), 404, dto.CreateCommentDTO{Text: "hello"})

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Nil(t, resp)
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCommentUpdate_WrongReviewIs404(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	svc := NewCommentService(mockCommentRepo, new(MockReviewRepository))

	mockCommentRepo.On("GetByID", int64(5)).Return(&models.Comment{ID: 5, ReviewID: 42}, nil)

	resp, err := svc.Update(plainActor(), 999, 5, dto.UpdateCommentDTO{Text: "edited"})

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Nil(t, resp)
}

func TestCommentDelete_StrangerForbidden(t *testing.T) {
	mockCommentRepo := new(MockCommentRepository)
	svc := NewCommentService(mockCommentRepo, new(MockReviewRepository))

	mockCommentRepo.On("GetByID", int64(5)).Return(&models.Comment{ID: 5, ReviewID: 42, AuthorID: "someone-else"}, nil)

	err := svc.Delete(plainActor(), 42, 5)

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))
	mockCommentRepo.AssertNotCalled(t, "Delete", mock.Anything)
}
