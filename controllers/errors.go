package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dryp/marketplace/apperror"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// respondError writes err as {message} with the status of its kind.
func respondError(c *gin.Context, err error) {
	var (
		validation *apperror.ValidationError
		authz      *apperror.AuthorizationError
		missing    *apperror.NotFoundError
		conflict   *apperror.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Message})
	case errors.As(err, &authz):
		status := http.StatusForbidden
		if authz.Unauthenticated {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"message": authz.Message})
	case errors.As(err, &missing):
		c.JSON(http.StatusNotFound, gin.H{"message": missing.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"message": conflict.Message})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

// objectIDParam parses a path parameter and answers 404 when it is not an id.
func objectIDParam(c *gin.Context, name, resource string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, apperror.NotFound(resource))
		return bson.ObjectID{}, false
	}
	return id, true
}
