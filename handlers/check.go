package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"

	"facecheck/auth"
	"facecheck/config"
	"facecheck/db"
	"facecheck/faces"
	"facecheck/models"
	"facecheck/storage"
	"facecheck/utils"
	"facecheck/verifier"

	"github.com/gin-gonic/gin"
)

type CheckResponse struct {
	ID string `json:"id,omitempty"`
	verifier.Status
}

// CheckUpload compares the photo in the "image" form field against the reference
func CheckUpload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if file.Size > config.MAX_UPLOAD_SIZE {
		c.JSON(http.StatusRequestEntityTooLarge, Response{"file too large"})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	data, err := io.ReadAll(io.LimitReader(reader, config.MAX_UPLOAD_SIZE))
	reader.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}

	status, err := Checker.Check(data)
	if errors.Is(err, verifier.ErrNotReady) {
		c.JSON(http.StatusServiceUnavailable, CheckResponse{Status: status})
		return
	}
	if err != nil && !errors.Is(err, faces.ErrNoFace) {
		log.Printf("Error analyzing %s: %v", file.Filename, err)
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	check := models.NewCheck(file.Filename, mimeType)
	check.Size = int64(len(data))
	if header, _, err := utils.ImageConfig(data, 0); err == nil {
		check.Width, check.Height = header.Width, header.Height
	}
	check.SetStatus(status)
	if db.Instance != nil {
		if storage.Archive != nil {
			archive(&check, data)
		}
		if err := check.Create(); err != nil {
			log.Printf("Error saving check %s: %v", check.ID, err)
			check.ID = ""
		}
	} else {
		check.ID = ""
	}
	if err := auth.LoadSession(c).SetLastStatus(status); err != nil {
		log.Printf("Session save error: %v", err)
	}
	c.JSON(http.StatusOK, CheckResponse{ID: check.ID, Status: status})
}

func archive(check *models.Check, data []byte) {
	path := check.GetPath()
	if _, err := storage.Archive.Save(path, bytes.NewReader(data)); err != nil {
		log.Printf("Error archiving %s: %v", path, err)
		return
	}
	defer storage.Archive.ReleaseLocalFile(path)
	if err := storage.Archive.UpdateFile(path, check.MimeType); err != nil {
		log.Printf("Error uploading %s: %v", path, err)
		return
	}
	check.Path = path
}
