package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/Abdellatifemara/Forma-sub000/api/rest/chat"
	"github.com/Abdellatifemara/Forma-sub000/api/rest/health"
	"github.com/Abdellatifemara/Forma-sub000/api/rest/usage"
)

// per-client request ceiling for the chat surface, independent of the
// per-user daily quota
const chatRateLimit = "30-M"

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", health.Handler)

	rate, err := limiter.NewRateFromFormatted(chatRateLimit)
	if err != nil {
		panic(err) // the format string is a compile-time constant
	}
	rateLimit := mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		chatGroup := v1.Group("")
		chatGroup.Use(rateLimit)
		chat.RegisterRoutes(chatGroup, server.services.Pipeline, server.services.History)

		usage.RegisterRoutes(v1, server.db, server.services.Gate)
	}
}
