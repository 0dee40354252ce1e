package controllers

import (
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/repository"
	"civic-issues-be/services"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminController struct {
	issues      *services.IssueService
	assignments *services.AssignmentService
	analytics   *services.AnalyticsService
}

func NewAdminController(issues *services.IssueService, assignments *services.AssignmentService, analytics *services.AnalyticsService) *AdminController {
	return &AdminController{issues: issues, assignments: assignments, analytics: analytics}
}

// GetIssues lists every issue with the admin filters, including assignee.
func (ctl *AdminController) GetIssues(c *gin.Context) {
	page := utils.GetPageParams(c)
	filter, err := issueFilterFromQuery(c, page)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if filter.AssignedTo, err = objectIDQuery(c, "assignedTo"); err != nil {
		utils.Error(c, err)
		return
	}

	issues, total, err := ctl.issues.List(c.Request.Context(), filter, nil)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "", gin.H{
		"issues":     issues,
		"pagination": utils.NewPagination(page, total).JSON("totalIssues"),
	})
}

type assignRequest struct {
	AssignedTo              string     `json:"assignedTo" binding:"required,objectid"`
	Notes                   string     `json:"notes" binding:"max=500"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate"`
}

func (ctl *AdminController) AssignIssue(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	issueID, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	var input assignRequest
	if !utils.BindJSON(c, &input) {
		return
	}
	workerID, _ := primitive.ObjectIDFromHex(input.AssignedTo)

	assignment, err := ctl.assignments.Assign(c.Request.Context(), issueID, admin.ID, services.AssignInput{
		WorkerID:            workerID,
		Notes:               input.Notes,
		EstimatedCompletion: input.EstimatedCompletionDate,
	})
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Issue assigned successfully", gin.H{"assignment": assignment})
}

type statusRequest struct {
	Status          string `json:"status" binding:"required,oneof=pending accepted in-progress resolved rejected"`
	ResolutionNotes string `json:"resolutionNotes" binding:"max=1000"`
}

func (ctl *AdminController) UpdateIssueStatus(c *gin.Context) {
	issueID, ok := objectIDParam(c, "id", "issue")
	if !ok {
		return
	}
	var input statusRequest
	if !utils.BindJSON(c, &input) {
		return
	}

	issue, err := ctl.assignments.UpdateStatus(c.Request.Context(), issueID, models.IssueStatus(input.Status), input.ResolutionNotes)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Issue status updated successfully", gin.H{"issue": issue})
}

func (ctl *AdminController) GetAnalytics(c *gin.Context) {
	analytics, err := ctl.analytics.Compute(c.Request.Context(), services.ParsePeriod(c.Query("period")))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "", analytics)
}

func (ctl *AdminController) GetWorkers(c *gin.Context) {
	workers, err := ctl.assignments.Workers(c.Request.Context())
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "", gin.H{"workers": workers})
}

func (ctl *AdminController) GetAssignments(c *gin.Context) {
	page := utils.GetPageParams(c)
	filter := repository.AssignmentFilter{
		Status: models.AssignmentStatus(c.Query("status")),
		Skip:   page.Skip(),
		Limit:  int64(page.Limit),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		utils.Error(c, apperrors.Validation("Invalid status"))
		return
	}
	var err error
	if filter.AssignedTo, err = objectIDQuery(c, "assignedTo"); err != nil {
		utils.Error(c, err)
		return
	}

	assignments, total, err := ctl.assignments.List(c.Request.Context(), filter)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "", gin.H{
		"assignments": assignments,
		"pagination":  utils.NewPagination(page, total).JSON("totalAssignments"),
	})
}
