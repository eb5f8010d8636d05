package handler

import (
	"net/http"
	"strconv"

	"commune/internal/middleware"
	"commune/internal/service"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	svc *service.ModerationService
}

func NewModerationHandler() *ModerationHandler {
	return &ModerationHandler{svc: service.NewModerationService()}
}

func (h *ModerationHandler) Join(c *gin.Context) {
	if err := h.svc.Join(c.Request.Context(), c.Param("slug"), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ModerationHandler) Leave(c *gin.Context) {
	if err := h.svc.Leave(c.Request.Context(), c.Param("slug"), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ModerationHandler) Ban(c *gin.Context) {
	var req service.BanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	if err := h.svc.BanUser(c.Request.Context(), c.Param("slug"), middleware.UserID(c), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Unban 目标用户从查询串取：DELETE /bans?user_id=42
func (h *ModerationHandler) Unban(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err := h.svc.UnbanUser(c.Request.Context(), c.Param("slug"), middleware.UserID(c), targetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Bans 封禁名单，仅版主可见
func (h *ModerationHandler) Bans(c *gin.Context) {
	bans, err := h.svc.ListBans(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bans": bans})
}

func (h *ModerationHandler) ModLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.svc.ListModLog(c.Request.Context(), c.Param("slug"), middleware.UserID(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type moderatePostReq struct {
	Reason string `json:"reason"`
}

// ModeratePost op 由路由段给出：remove/restore/lock/unlock/pin/unpin
func (h *ModerationHandler) ModeratePost(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || postID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
			return
		}
		var req moderatePostReq
		_ = c.ShouldBindJSON(&req) // reason 可省略
		if err := h.svc.ModeratePost(c.Request.Context(), postID, middleware.UserID(c), op, req.Reason); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "ok"})
	}
}
