package handler

import (
	"net/http"
	"strconv"

	"commune/internal/middleware"
	"commune/internal/model"
	"commune/internal/service"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	svc *service.VoteService
}

type voteReq struct {
	Type string `json:"type"` // UP / DOWN / NONE
}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{svc: service.NewVoteService()}
}

// VotePost 幂等：重复同向投票不报错也不改分
func (h *VoteHandler) VotePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req voteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	score, err := h.svc.VotePost(c.Request.Context(), middleware.UserID(c), postID, model.VoteType(req.Type))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (h *VoteHandler) VoteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || commentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	var req voteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	score, err := h.svc.VoteComment(c.Request.Context(), middleware.UserID(c), commentID, model.VoteType(req.Type))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}
