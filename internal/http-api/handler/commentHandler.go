package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes mounts comments nested under
// /titles/:title_id/reviews/:review_id.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("/:title_id/reviews/:review_id/comments", h.List)
	rg.GET("/:title_id/reviews/:review_id/comments/:comment_id", h.Get)
	rg.POST("/:title_id/reviews/:review_id/comments", requireAuth, h.Create)
	rg.PATCH("/:title_id/reviews/:review_id/comments/:comment_id", requireAuth, h.Update)
	rg.DELETE("/:title_id/reviews/:review_id/comments/:comment_id", requireAuth, h.Delete)
}

func (h *CommentHandler) List(c *gin.Context) {
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		respondError(c, err)
		return
	}

	page, pageSize := parsePagination(c)
	resp, err := h.svc.ListByReview(reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Get(c *gin.Context) {
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		respondError(c, err)
		return
	}
	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.svc.Get(reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Create(c *gin.Context) {
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		respondError(c, err)
		return
	}

	var in dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}

	resp, err := h.svc.Create(middleware.ActorFrom(c), reviewID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) Update(c *gin.Context) {
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		respondError(c, err)
		return
	}
	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		respondError(c, err)
		return
	}

	var in dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}

	resp, err := h.svc.Update(middleware.ActorFrom(c), reviewID, commentID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		respondError(c, err)
		return
	}
	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(middleware.ActorFrom(c), reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
