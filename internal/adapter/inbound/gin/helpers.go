package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/utils/middleware"
)

// GetUserIDFromContext extracts user ID from gin context.
// Returns the user ID and true if successful, or uuid.Nil and false after writing a 401.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Code:    "unauthorized",
			Message: "User not authenticated",
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a UUID path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid_id", "Invalid subscription ID")
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON binds a JSON body when one is present. Empty bodies leave obj untouched.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return false
	}
	return true
}
