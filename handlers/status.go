package handlers

import (
	"net/http"

	"facecheck/verifier"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	verifier.Status
	Ready     bool    `json:"ready"`
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold"`
}

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentStatus())
}

func CurrentStatus() StatusResponse {
	return StatusResponse{
		Status:    Checker.Status(),
		Ready:     Checker.Ready(),
		Name:      Checker.Name,
		Threshold: Checker.Threshold,
	}
}
