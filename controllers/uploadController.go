package controllers

import (
	"errors"

	"civic-issues-be/apperrors"
	"civic-issues-be/storage"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	photos storage.PhotoStore
}

// NewUploadController accepts a nil store; uploads then answer 503.
func NewUploadController(photos storage.PhotoStore) *UploadController {
	return &UploadController{photos: photos}
}

func (ctl *UploadController) UploadPhoto(c *gin.Context) {
	if ctl.photos == nil {
		utils.Error(c, apperrors.Unavailable("Photo uploads are not configured"))
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		utils.Error(c, apperrors.Validation("photo file is required"))
		return
	}
	if header.Size > storage.MaxPhotoSize {
		utils.Error(c, apperrors.Validation(storage.ErrPhotoTooLarge.Error()))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.Error(c, apperrors.Validation("Could not read uploaded file"))
		return
	}
	defer file.Close()

	url, err := ctl.photos.Upload(c.Request.Context(), file)
	switch {
	case errors.Is(err, storage.ErrPhotoTooLarge), errors.Is(err, storage.ErrUnsupportedType):
		utils.Error(c, apperrors.Validation(err.Error()))
		return
	case err != nil:
		utils.Error(c, apperrors.Internal("Failed to store photo", err))
		return
	}
	utils.Created(c, "Photo uploaded successfully", gin.H{"url": url})
}
