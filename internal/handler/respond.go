package handler

import (
	"errors"
	"net/http"

	"commune/internal/pkg"

	"github.com/gin-gonic/gin"
)

// fail 统一失败出口：错误口味映射状态码，响应体固定为 { "error": ... }
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pkg.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, pkg.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
