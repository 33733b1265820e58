package handlers

import (
	"log"
	"net/http"

	"facecheck/verifier"

	"github.com/gin-gonic/gin"
)

// ReferenceReload recomputes the reference descriptor in the background, e.g. after the photo was replaced
func ReferenceReload(c *gin.Context) {
	if Checker.Status().Kind == verifier.KindLoading {
		c.JSON(http.StatusConflict, Response{"still loading"})
		return
	}
	checker, reference := Checker, Reference
	go func() {
		if err := checker.Reload(reference); err != nil {
			log.Printf("Reference reload failed: %v", err)
		}
	}()
	c.JSON(http.StatusAccepted, OKResponse)
}
