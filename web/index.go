package web

import (
	"bytes"
	"log"
	"net/http"

	"facecheck/auth"
	"facecheck/config"
	"facecheck/handlers"
	"facecheck/utils"
	"facecheck/verifier"

	"github.com/gin-gonic/gin"
)

func Index(c *gin.Context) {
	current := handlers.CurrentStatus()
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"name":      current.Name,
		"status":    current.Status,
		"ready":     current.Ready,
		"last":      auth.LoadSession(c).LastStatus(),
		"analyzing": verifier.MessageAnalyzing,
	})
}

// ReferencePhoto serves a thumbnail of the reference photo
func ReferencePhoto(c *gin.Context) {
	data, err := handlers.Reference()
	if err != nil {
		log.Printf("Reference photo error: %v", err)
		c.JSON(http.StatusNotFound, handlers.NotFoundResponse)
		return
	}
	var thumb bytes.Buffer
	if _, err = utils.CreateThumb(uint(config.THUMB_SIZE), config.MAX_IMAGE_PIXELS, bytes.NewReader(data), &thumb); err != nil {
		log.Printf("Reference thumbnail error: %v", err)
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "cannot read reference photo"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", thumb.Bytes())
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}
