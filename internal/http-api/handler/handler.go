package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/apperr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// respondError writes the error body every endpoint shares: a stable
// machine-readable kind plus a human message.
func respondError(c *gin.Context, err error) {
	message := "internal error"
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.KindInternal {
		message = e.Message
	}
	c.JSON(apperr.Status(err), gin.H{
		"kind":  string(apperr.KindOf(err)),
		"error": message,
	})
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}
