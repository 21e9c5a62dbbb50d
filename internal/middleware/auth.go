package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/statuspng/statuspng/internal/auth"
	"github.com/statuspng/statuspng/internal/store"
	"github.com/statuspng/statuspng/internal/types"
)

type AuthenticatedUser struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	OrgName string `json:"org_name"`
	OrgSlug string `json:"org_slug"`
	Plan    string `json:"plan"`
}

// AuthMiddleware authenticates the request from the session cookie or a
// Bearer header and loads the user into the gin context.
func AuthMiddleware(st store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		claims, err := auth.VerifyJWT(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := st.GetUserByID(claims.UserID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:      user.ID,
			Email:   user.Email,
			OrgName: user.OrgName,
			OrgSlug: user.OrgSlug,
			Plan:    user.Plan,
		})
		ctx.Next()
	}
}

// OptionalAuth loads the user into the context when a valid token is
// present but lets anonymous requests through. The check endpoint uses
// it: a bulk sweep comes from an unauthenticated cron trigger while a
// single-monitor check must prove ownership.
func OptionalAuth(st store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)

		if tokenString == "" {
			ctx.Next()
			return
		}

		claims, err := auth.VerifyJWT(tokenString)

		if err != nil {
			ctx.Next()
			return
		}

		user, err := st.GetUserByID(claims.UserID)

		if err != nil {
			ctx.Next()
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:      user.ID,
			Email:   user.Email,
			OrgName: user.OrgName,
			OrgSlug: user.OrgSlug,
			Plan:    user.Plan,
		})
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
