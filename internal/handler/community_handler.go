package handler

import (
	"net/http"
	"strconv"

	"commune/internal/middleware"
	"commune/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{svc: service.NewCommunityService()}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req service.CreateCommunityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	community, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"community": community})
}

func (h *CommunityHandler) Get(c *gin.Context) {
	community, err := h.svc.Get(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": community})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
