package handler

import (
	"context"
	"net/http"

	"campusreview/campus-service/internal/app/campus/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// replySegment - последний сегмент пути POST /comments/:commentId/reply
const replySegment = "reply"

type CommentServiceInterface interface {
	ListComments(ctx context.Context, ownerType, ownerID string) ([]entity.CommentView, error)
	CreateComment(ctx context.Context, ownerType, ownerID, authorID, content string) (*entity.Comment, error)
	ReplyToComment(ctx context.Context, parentID, authorID, content string) (*entity.CommentView, error)
	DeleteComment(ctx context.Context, commentID, requesterID string) error
}

type CommentHandler struct {
	commentService CommentServiceInterface
	validator      *validator.Validate
}

func NewCommentHandler(commentService CommentServiceInterface) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validator:      validator.New(),
	}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.ListComments(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateOrReply обслуживает POST /comments/:type/:id.
// Путь /comments/<id>/reply попадает сюда же и означает ответ на комментарий <id>.
func (h *CommentHandler) CreateOrReply(c *gin.Context) {
	if c.Param("id") == replySegment {
		h.reply(c, c.Param("type"))
		return
	}
	h.CreateComment(c)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateCommentRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), c.Param("type"), c.Param("id"), userID, req.Content)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) reply(c *gin.Context, parentID string) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateCommentRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	reply, err := h.commentService.ReplyToComment(c.Request.Context(), parentID, userID, req.Content)
	if err != nil {
		respondError(c, err, "Failed to reply to comment")
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), c.Param("commentId"), userID); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Comment deleted successfully"})
}
