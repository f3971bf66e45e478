package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/Abdellatifemara/Forma-sub000/internal/auth"
	"github.com/Abdellatifemara/Forma-sub000/internal/history"
	"github.com/Abdellatifemara/Forma-sub000/internal/pipeline"
)

func RegisterRoutes(rg *gin.RouterGroup, pipe *pipeline.Pipeline, repo *history.Repository) {
	chat := rg.Group("/chat")
	chat.Use(auth.AuthMiddleware()) // all chat routes require authentication

	chat.POST("/message", PostMessage(pipe, repo))
	chat.GET("/history", GetHistory(repo))
}
