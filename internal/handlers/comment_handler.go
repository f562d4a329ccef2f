package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type CommentHandler struct {
	*BaseHandler
	commentService services.CommentService
}

func NewCommentHandler(base *BaseHandler, commentService services.CommentService) *CommentHandler {
	return &CommentHandler{
		BaseHandler:    base,
		commentService: commentService,
	}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(h.RequireAuth())
	{
		users.POST("/:userId/comments", h.AddComment)
		users.GET("/:userId/comments", h.GetComments)
	}
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	commenterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	profileUserID, err := ParseParamID(c, "userId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), h.GetDB(c), commenterID, profileUserID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "comment": comment})
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	profileUserID, err := ParseParamID(c, "userId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	comments, err := h.commentService.GetComments(c.Request.Context(), h.GetDB(c), profileUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
