package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Abdellatifemara/Forma-sub000/internal/config"
	"github.com/Abdellatifemara/Forma-sub000/internal/history"
	"github.com/Abdellatifemara/Forma-sub000/internal/pipeline"
	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool
	config   *config.Config
	services *Services
	router   *gin.Engine
}

// holds the resolution pipeline and the stores it runs on
type Services struct {
	Pipeline *pipeline.Pipeline
	Gate     *quota.Gate
	History  *history.Repository
}
