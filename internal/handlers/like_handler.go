package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type LikeHandler struct {
	*BaseHandler
	likeService services.LikeService
}

func NewLikeHandler(base *BaseHandler, likeService services.LikeService) *LikeHandler {
	return &LikeHandler{
		BaseHandler: base,
		likeService: likeService,
	}
}

func (h *LikeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(h.RequireAuth())
	{
		users.POST("/:userId/like", h.ToggleLike)
		users.GET("/:userId/like", h.GetLikeStatus)
		users.GET("/:userId/likes/count", h.CountLikes)
	}
}

// ToggleLike answers as soon as the like row is written; notifications and
// match detection run in the background.
func (h *LikeHandler) ToggleLike(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	targetID, err := ParseParamID(c, "userId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	resp, err := h.likeService.ToggleLike(c.Request.Context(), h.GetDB(c), actorID, targetID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if resp.Liked {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *LikeHandler) GetLikeStatus(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	targetID, err := ParseParamID(c, "userId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	resp, err := h.likeService.GetLikeStatus(c.Request.Context(), h.GetDB(c), actorID, targetID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LikeHandler) CountLikes(c *gin.Context) {
	userID, err := ParseParamID(c, "userId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	resp, err := h.likeService.CountLikes(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
