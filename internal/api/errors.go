package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/service"
)

// respondError translates service errors into the API's error envelope. Field
// validation errors return the per-field message map; everything else uses the
// single "detail" key.
func respondError(c *gin.Context, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrRecipeDeleted),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrNoRecipes):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrRecipeHidden),
		errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrAlreadyDeleted),
		errors.Is(err, service.ErrNotDeleted),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrNotLiked),
		errors.Is(err, service.ErrAlreadyReported),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrTagExists):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
