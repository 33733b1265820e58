package handlers

import (
	"errors"
	"net/http"

	"facecheck/db"
	"facecheck/models"
	"facecheck/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HistoryRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

type HistoryResponse struct {
	Checks    []models.Check `json:"checks"`
	FreeSpace uint64         `json:"free_space"`
}

func HistoryList(c *gin.Context) {
	if db.Instance == nil {
		c.JSON(http.StatusNotFound, Response{"history disabled"})
		return
	}
	r := HistoryRequest{Limit: 50}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.Limit == 0 {
		r.Limit = 50
	}
	checks, err := models.ListChecks(r.Limit, r.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := HistoryResponse{Checks: checks}
	if result.Checks == nil {
		result.Checks = []models.Check{}
	}
	if storage.Archive != nil {
		result.FreeSpace = storage.Archive.GetFreeSpace()
	}
	c.JSON(http.StatusOK, result)
}

// HistoryThumb serves the thumbnail of an archived check
func HistoryThumb(c *gin.Context) {
	if db.Instance == nil || storage.Archive == nil {
		c.JSON(http.StatusNotFound, Response{"archive disabled"})
		return
	}
	check, err := models.FindCheck(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	if check.ThumbPath == "" || check.ThumbSize <= 0 {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err = storage.Archive.EnsureLocalFile(check.ThumbPath); err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	defer storage.Archive.ReleaseLocalFile(check.ThumbPath)
	c.Header("cache-control", "private, max-age=86400")
	storage.Archive.Serve(check.ThumbPath, c.Request, c.Writer)
}
