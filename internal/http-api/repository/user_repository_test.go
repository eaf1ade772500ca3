package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewhub/internal/http-api/models"
)

func TestUserDelete_CascadesReviewsAndComments(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	reviewRepo := NewReviewRepository(db)
	commentRepo := NewCommentRepository(db)

	doomed := createTestUser(t, db, "doomed")
	bystander := createTestUser(t, db, "bystander")
	title := createTestTitle(t, db, "Dune")

	doomedReview := &models.Review{AuthorID: doomed.ID, TitleID: title.ID, Score: 8}
	keptReview := &models.Review{AuthorID: bystander.ID, TitleID: title.ID, Score: 5}
	assert.NoError(t, reviewRepo.Create(doomedReview))
	assert.NoError(t, reviewRepo.Create(keptReview))

	// someone else's comment under the doomed review, and the doomed
	// user's comment under the surviving review
	orphanedComment := &models.Comment{AuthorID: bystander.ID, ReviewID: doomedReview.ID, Text: "agreed"}
	authoredComment := &models.Comment{AuthorID: doomed.ID, ReviewID: keptReview.ID, Text: "disagree"}
	assert.NoError(t, commentRepo.Create(orphanedComment))
	assert.NoError(t, commentRepo.Create(authoredComment))

	assert.NoError(t, userRepo.Delete("doomed"))

	_, err := reviewRepo.GetByID(doomedReview.ID)
	assert.True(t, IsNotFound(err))
	_, err = commentRepo.GetByID(orphanedComment.ID)
	assert.True(t, IsNotFound(err))
	_, err = commentRepo.GetByID(authoredComment.ID)
	assert.True(t, IsNotFound(err))

	_, err = reviewRepo.GetByID(keptReview.ID)
	assert.NoError(t, err)
}

func TestUserDelete_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.Delete("nobody")

	assert.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUserList_PrefixSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "alice")
	createTestUser(t, db, "albert")
	createTestUser(t, db, "bob")

	users, total, err := repo.List("al", 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "albert", users[0].Username)
	assert.Equal(t, "alice", users[1].Username)
}
