package controllers

import (
	"civic-issues-be/services"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
)

// UserController serves the caller's own account.
type UserController struct {
	users *services.AuthService
}

func NewUserController(users *services.AuthService) *UserController {
	return &UserController{users: users}
}

type profileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=50"`
	Phone *string `json:"phone" binding:"omitempty,e164"`
}

// UpdateMe edits the caller's own profile.
func (ctl *UserController) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var input profileRequest
	if !utils.BindJSON(c, &input) {
		return
	}

	updated, err := ctl.users.UpdateProfile(c.Request.Context(), user, services.ProfileInput{
		Name:  input.Name,
		Phone: input.Phone,
	})
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Profile updated successfully", gin.H{"user": updated})
}
