package handler

import (
	"net/http"
	"strconv"

	"commune/internal/middleware"
	"commune/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{svc: service.NewCommentService()}
}

// List 返回嵌套评论树：sort=best|new|old|controversial
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	page, err := h.svc.ListComments(c.Request.Context(), postID, c.DefaultQuery("sort", "best"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req service.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), postID, middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Delete 作者软删除：占位保留，回复不受影响
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || commentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), commentID, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
