package controllers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jusdesk/jusdesk_backend/middleware"
)

// currentUserID resolves the authenticated caller from the JWT claims
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	userID := middleware.GetUserIDFromToken(c)
	if userID == "" {
		return primitive.NilObjectID, errors.New("no authenticated user")
	}
	return primitive.ObjectIDFromHex(userID)
}

// pagination bounds for list endpoints
func paginationParams(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
