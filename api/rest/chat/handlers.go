package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Abdellatifemara/Forma-sub000/internal/auth"
	"github.com/Abdellatifemara/Forma-sub000/internal/errors"
	"github.com/Abdellatifemara/Forma-sub000/internal/history"
	"github.com/Abdellatifemara/Forma-sub000/internal/logger"
	"github.com/Abdellatifemara/Forma-sub000/internal/pipeline"
)

const (
	defaultHistoryLimit   = 50
	recentTurnsForContext = 8
)

// PostMessage godoc
// @Summary Send a chat message
// @Description Resolves a free-text message through the coaching pipeline and returns the answer with its source
// @Tags chat
// @Accept json
// @Produce json
// @Success 200 {object} pipeline.Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/chat/message [post]
// @Security BearerAuth
func PostMessage(pipe *pipeline.Pipeline, repo *history.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "user not authenticated")
			return
		}

		var req MessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		turns := req.History
		if len(turns) == 0 {
			stored, err := repo.Recent(c.Request.Context(), userID, recentTurnsForContext)
			if err != nil {
				logger.Warn("failed to load recent history", "user_id", userID, "error", err)
			}
			for _, m := range stored {
				turns = append(turns, pipeline.Turn{Role: m.Role, Content: m.Content})
			}
		}

		resp, err := pipe.Resolve(c.Request.Context(), pipeline.Request{
			UserID:   userID,
			Message:  req.Message,
			Language: req.Language,
			History:  turns,
		})
		if err == pipeline.ErrEmptyMessage {
			errors.ValidationMessage(c, "message must not be empty")
			return
		}
		if err != nil {
			errors.InternalError(c, "failed to process message", err)
			return
		}

		// persistence is best-effort; a history write must not fail the chat
		if _, err := repo.Save(c.Request.Context(), userID, "user", req.Message, ""); err != nil {
			logger.Warn("failed to save user message", "user_id", userID, "error", err)
		}
		if _, err := repo.Save(c.Request.Context(), userID, "assistant", resp.Text, string(resp.Source)); err != nil {
			logger.Warn("failed to save assistant message", "user_id", userID, "error", err)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// GetHistory godoc
// @Summary Get chat history
// @Description Returns the user's recent chat turns, oldest first
// @Tags chat
// @Produce json
// @Param limit query int false "max turns to return (default 50)"
// @Success 200 {object} HistoryResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/chat/history [get]
// @Security BearerAuth
func GetHistory(repo *history.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "user not authenticated")
			return
		}

		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 200 {
				errors.ValidationMessage(c, "limit must be between 1 and 200")
				return
			}
			limit = parsed
		}

		messages, err := repo.Recent(c.Request.Context(), userID, limit)
		if err != nil {
			errors.InternalError(c, "failed to load chat history", err)
			return
		}
		if messages == nil {
			messages = []history.Message{}
		}

		c.JSON(http.StatusOK, HistoryResponse{Messages: messages})
	}
}
