package usage

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Abdellatifemara/Forma-sub000/internal/auth"
	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

func RegisterRoutes(rg *gin.RouterGroup, db *pgxpool.Pool, gate *quota.Gate) {
	usage := rg.Group("/usage")
	usage.Use(auth.AuthMiddleware())

	usage.GET("", GetUsage(db, gate))
}
