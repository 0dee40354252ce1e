package controllers

import (
	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/repository"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultRadiusKm = 10

// issueFilterFromQuery reads the listing filters shared by the public and
// admin issue lists.
func issueFilterFromQuery(c *gin.Context, page utils.PageParams) (repository.IssueFilter, error) {
	filter := repository.IssueFilter{
		SortBy:  c.DefaultQuery("sortBy", "createdAt"),
		SortAsc: c.Query("sortOrder") == "asc",
		Skip:    page.Skip(),
		Limit:   int64(page.Limit),
	}
	if !repository.SortableIssueFields[filter.SortBy] {
		return filter, apperrors.Validation("Invalid sortBy field")
	}

	if v := c.Query("category"); v != "" {
		filter.Category = models.IssueCategory(v)
		if !filter.Category.Valid() {
			return filter, apperrors.Validation("Invalid category")
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = models.IssueStatus(v)
		if !filter.Status.Valid() {
			return filter, apperrors.Validation("Invalid status")
		}
	}
	if v := c.Query("priority"); v != "" {
		filter.Priority = models.IssuePriority(v)
		if !filter.Priority.Valid() {
			return filter, apperrors.Validation("Invalid priority")
		}
	}

	if v := c.Query("location"); v != "" {
		lat, lng, ok := utils.ParseLatLng(v)
		if !ok || !models.ValidCoordinates(lat, lng) {
			return filter, apperrors.Validation("Invalid location, expected lat,lng")
		}
		radius, ok := utils.ParsePositiveFloat(c.Query("radius"), defaultRadiusKm)
		if !ok {
			return filter, apperrors.Validation("Invalid radius, expected a positive number of km")
		}
		filter.Near = &repository.GeoNear{
			Latitude:  lat,
			Longitude: lng,
			RadiusKm:  radius,
		}
	}
	return filter, nil
}

// objectIDQuery parses an optional id query parameter.
func objectIDQuery(c *gin.Context, name string) (*primitive.ObjectID, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return nil, apperrors.Validation("Invalid " + name)
	}
	return &id, nil
}
