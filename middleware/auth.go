package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/models"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextTokenIDKey stores the jti of the presented token.
	ContextTokenIDKey = "token_id"
)

// AuthRequired authenticates the request from the signed token cookie.
// A missing cookie yields 401. An invalid, expired or revoked token yields 403, as does a
// token whose user no longer exists or was issued before that user row was created.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := ctx.Cookie(config.Get().CookieName)
		if err != nil || strings.TrimSpace(tokenString) == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication token missing")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusForbidden, 40301, "invalid or expired token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(claims.ID) {
			utils.Error(ctx, http.StatusForbidden, 40302, "token revoked")
			ctx.Abort()
			return
		}

		var user models.User
		if err := db.Select("id", "created_at").First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(ctx, http.StatusForbidden, 40303, "account no longer exists")
				ctx.Abort()
				return
			}
			utils.Sugar.Errorw("load token user failed", "user_id", claims.UserID, "error", err)
			utils.Error(ctx, http.StatusInternalServerError, 50100, err.Error())
			ctx.Abort()
			return
		}
		// ids restart after a schema reset; iat has second precision
		if claims.IssuedAt == nil || claims.IssuedAt.Time.Before(user.CreatedAt.Truncate(time.Second)) {
			utils.Error(ctx, http.StatusForbidden, 40303, "account no longer exists")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextTokenIDKey, claims.ID)
		ctx.Next()
	}
}

// UserID returns the authenticated user id stored by AuthRequired.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
