package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/statuspng/statuspng/internal/middleware"
	"github.com/statuspng/statuspng/internal/types"
)

// GetCurrentUser returns the user the auth middleware stored in the
// context, or an error when the request carried no valid session.
func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, errors.New("User not authenticated")
	}

	currentUser, ok := value.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, errors.New("Invalid user type in context")
	}

	return currentUser, nil
}
