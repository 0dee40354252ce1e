package middlewares

import (
	"net/http"
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const issueLimitWindow = 24 * time.Hour

// IssueRateLimiter caps how many issues one account may file per day. The
// counter lives in redis under "<prefix>:<user id>" and expires a day after
// the first report of the window.
func IssueRateLimiter(client *redis.Client, prefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(userIDKey)
		if userID == "" {
			utils.Error(c, apperrors.Unauthorized("User not authenticated"))
			return
		}

		ctx := c.Request.Context()
		userKey := prefix + ":" + userID

		count, err := client.Incr(ctx, userKey).Result()
		if err != nil {
			utils.Error(c, apperrors.Internal("Rate limiter unavailable", err))
			return
		}

		// Set TTL only for the first increment of the window.
		if count == 1 {
			if err := client.Expire(ctx, userKey, issueLimitWindow).Err(); err != nil {
				utils.Error(c, apperrors.Internal("Rate limiter unavailable", err))
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, userKey).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.Response{
				Success: false,
				Message: "Daily issue limit reached, try again later",
				Data:    gin.H{"retry_after": int64(retryAfter.Seconds())},
			})
			return
		}

		c.Next()
	}
}
