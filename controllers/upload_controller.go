package controllers

import (
	"errors"
	"net/http"

	"github.com/dryp/marketplace/media"
	"github.com/gin-gonic/gin"
)

// UploadImage stores the multipart "image" field and returns its url and public id.
func (a *App) UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			badRequest(c, "No image file provided")
			return
		}
		contentType, err := a.Validator.ValidateFile(fh)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		file, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer file.Close()

		img, err := a.Media.Upload(c.Request.Context(), file, fh.Filename, contentType)
		if errors.Is(err, media.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Image uploaded",
			"url":      img.URL,
			"publicId": img.PublicID,
		})
	}
}
