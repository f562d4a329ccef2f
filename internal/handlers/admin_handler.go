package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
	"github.com/billpap123/artepovera-backend-sub000/internal/middleware"
	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

// AdminHandler exposes moderation endpoints.
type AdminHandler struct {
	*BaseHandler
	userService    services.UserService
	commentService services.CommentService
	jobService     services.JobService
}

func NewAdminHandler(
	base *BaseHandler,
	userService services.UserService,
	commentService services.CommentService,
	jobService services.JobService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		userService:    userService,
		commentService: commentService,
		jobService:     jobService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(h.RequireAuth(), middleware.RequirePermission(auth.PermUsersModerate))
	{
		admin.GET("/users", h.ListUsers)
		admin.DELETE("/users/:userId", h.DeleteUser)
		admin.DELETE("/comments/:commentId", middleware.RequirePermission(auth.PermContentDelete), h.DeleteComment)
		admin.DELETE("/jobs/:jobId", middleware.RequirePermission(auth.PermContentDelete), h.DeleteJob)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.userService.ListUsers(c.Request.Context(), h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	userID, err := ParseParamID(c, "userId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), h.GetDB(c), adminID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	commentID, err := ParseParamID(c, "commentId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), h.GetDB(c), commentID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (h *AdminHandler) DeleteJob(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), adminID, true, jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job posting deleted"})
}
