package controllers

import (
	"civic-issues-be/apperrors"
	"civic-issues-be/middlewares"
	"civic-issues-be/models"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDParam parses a path id, answering 400 itself when it is malformed.
func objectIDParam(c *gin.Context, name, resource string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.Error(c, apperrors.Validation("Invalid "+resource+" ID"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser is only called behind AuthMiddleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.Error(c, apperrors.Unauthorized("User not authenticated"))
	}
	return user, ok
}

// viewerID is the caller's id on routes where auth is optional.
func viewerID(c *gin.Context) *primitive.ObjectID {
	if user, ok := middlewares.CurrentUser(c); ok {
		return &user.ID
	}
	return nil
}
