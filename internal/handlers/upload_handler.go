package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sashika20643/Soundpath-sub001/internal/helpers"
)

func Health(c *gin.Context) {
	helpers.RespondWithData(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": "sonic-paths-api",
	})
}

// UploadHeroImage stores a hero image and returns its path for use in event
// payloads.
func UploadHeroImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "image file is required")
		return
	}

	path, err := helpers.UploadFile(c, fileHeader, "hero_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, gin.H{"path": path})
}
