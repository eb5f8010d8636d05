package handler

import (
	"net/http"
	"strconv"

	"commune/internal/middleware"
	"commune/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler() *PostHandler {
	return &PostHandler{svc: service.NewPostService()}
}

// List 社区帖子列表：sort=hot|new|top，t 仅对 top 生效，游标为上一页末条 id
func (h *PostHandler) List(c *gin.Context) {
	slug := c.Param("slug")

	flairID, _ := strconv.ParseUint(c.Query("flair"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	page, err := h.svc.ListPosts(c.Request.Context(), slug, service.ListOptions{
		Sort:      c.DefaultQuery("sort", "hot"),
		TimeRange: c.DefaultQuery("t", "all"),
		FlairID:   flairID,
		Cursor:    cursor,
		Limit:     limit,
		ActorID:   middleware.UserID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PostHandler) Create(c *gin.Context) {
	slug := c.Param("slug")

	var req service.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), slug, middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// Delete 作者软删除自己的帖子
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), postID, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

type pollVoteReq struct {
	OptionID uint64 `json:"option_id"`
}

// PollVote 给投票帖的选项计一票，返回最新计数
func (h *PostHandler) PollVote(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req pollVoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	options, err := h.svc.VotePoll(c.Request.Context(), postID, middleware.UserID(c), req.OptionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}
