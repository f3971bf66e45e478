package usage

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Abdellatifemara/Forma-sub000/internal/auth"
	"github.com/Abdellatifemara/Forma-sub000/internal/errors"
	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

// GetUsage godoc
// @Summary Get today's quota usage
// @Description Returns the authenticated user's usage count, tier, and daily limit (-1 for unlimited)
// @Tags usage
// @Produce json
// @Success 200 {object} UsageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/usage [get]
// @Security BearerAuth
func GetUsage(db *pgxpool.Pool, gate *quota.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "user not authenticated")
			return
		}

		var rawTier string
		err := db.QueryRow(c.Request.Context(), `
			SELECT tier FROM subscriptions WHERE user_id = $1
		`, userID).Scan(&rawTier)
		if err != nil && err != pgx.ErrNoRows {
			errors.InternalError(c, "failed to fetch subscription tier", err)
			return
		}
		tier := quota.ParseTier(rawTier)

		current, err := gate.Peek(c.Request.Context(), userID, tier)
		if err != nil {
			errors.InternalError(c, "failed to fetch usage data", err)
			return
		}

		c.JSON(http.StatusOK, UsageResponse{
			Used:  current.Used,
			Limit: current.Limit,
			Tier:  string(tier),
		})
	}
}
