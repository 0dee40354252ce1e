package controllers

import (
	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/services"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
)

type IssueController struct {
	issues     *services.IssueService
	engagement *services.EngagementService
}

func NewIssueController(issues *services.IssueService, engagement *services.EngagementService) *IssueController {
	return &IssueController{issues: issues, engagement: engagement}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Address   string   `json:"address" binding:"max=200"`
}

type createIssueRequest struct {
	Title       string           `json:"title" binding:"required,min=5,max=100"`
	Description string           `json:"description" binding:"required,min=10,max=1000"`
	Category    string           `json:"category" binding:"required,oneof=waste pothole streetlight greenery water electricity road other"`
	Priority    string           `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Location    *locationRequest `json:"location" binding:"required"`
	Photos      []string         `json:"photos" binding:"omitempty,max=5,dive,photourl"`
}

// CreateIssue handles the creation of a new issue
func (ctl *IssueController) CreateIssue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var input createIssueRequest
	if !utils.BindJSON(c, &input) {
		return
	}

	issue, err := ctl.issues.Create(c.Request.Context(), user.ID, services.CreateIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		Priority:    models.IssuePriority(input.Priority),
		Location: services.LocationInput{
			Latitude:  *input.Location.Latitude,
			Longitude: *input.Location.Longitude,
			Address:   input.Location.Address,
		},
		Photos: input.Photos,
	})
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, "Issue created successfully", gin.H{"issue": issue})
}

// GetAllIssues lists issues with filtering, proximity search and pagination
func (ctl *IssueController) GetAllIssues(c *gin.Context) {
	page := utils.GetPageParams(c)
	filter, err := issueFilterFromQuery(c, page)
	if err != nil {
		utils.Error(c, err)
		return
	}

	issues, total, err := ctl.issues.List(c.Request.Context(), filter, viewerID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "", gin.H{
		"issues":     issues,
		"pagination": utils.NewPagination(page, total).JSON("totalIssues"),
	})
}

// GetIssuesByUser lists the caller's own issues
func (ctl *IssueController) GetIssuesByUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	status := models.IssueStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.Error(c, apperrors.Validation("Invalid status"))
		return
	}

	page := utils.GetPageParams(c)
	issues, total, err := ctl.issues.ListByCreator(c.Request.Context(), user.ID, status, page.Skip(), int64(page.Limit))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "", gin.H{
		"issues":     issues,
		"pagination": utils.NewPagination(page, total).JSON("totalIssues"),
	})
}

// GetIssue retrieves an issue by its ID
func (ctl *IssueController) GetIssue(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	issue, err := ctl.issues.Get(c.Request.Context(), id, viewerID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "", gin.H{"issue": issue})
}

type updateIssueRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=5,max=100"`
	Description *string  `json:"description" binding:"omitempty,min=10,max=1000"`
	Category    *string  `json:"category" binding:"omitempty,oneof=waste pothole streetlight greenery water electricity road other"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Photos      []string `json:"photos" binding:"omitempty,max=5,dive,photourl"`
}

// UpdateIssue lets the creator or an admin edit an issue's details
func (ctl *IssueController) UpdateIssue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	var input updateIssueRequest
	if !utils.BindJSON(c, &input) {
		return
	}

	update := services.UpdateIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Photos:      input.Photos,
	}
	if input.Category != nil {
		category := models.IssueCategory(*input.Category)
		update.Category = &category
	}
	if input.Priority != nil {
		priority := models.IssuePriority(*input.Priority)
		update.Priority = &priority
	}

	issue, err := ctl.issues.Update(c.Request.Context(), id, user, update)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Issue updated successfully", gin.H{"issue": issue})
}

// DeleteIssue lets the creator or an admin remove an issue
func (ctl *IssueController) DeleteIssue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	if err := ctl.issues.Delete(c.Request.Context(), id, user); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Issue deleted successfully", nil)
}

func (ctl *IssueController) Upvote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	count, err := ctl.engagement.Upvote(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Issue upvoted successfully", gin.H{"upvoteCount": count})
}

func (ctl *IssueController) RemoveUpvote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	count, err := ctl.engagement.RemoveUpvote(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Upvote removed successfully", gin.H{"upvoteCount": count})
}

// Rating range is checked by the service, after the resolved-status gate.
type feedbackRequest struct {
	Rating  *int   `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"max=500"`
}

func (ctl *IssueController) SubmitFeedback(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	var input feedbackRequest
	if !utils.BindJSON(c, &input) {
		return
	}

	result, err := ctl.engagement.SubmitFeedback(c.Request.Context(), id, user.ID, *input.Rating, input.Comment)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Feedback submitted successfully", result)
}
