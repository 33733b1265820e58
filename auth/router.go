package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const tokenHeader = "X-Admin-Token"

// Router is a wrapper that only lets requests carrying the admin token through.
// All its routes answer 404 when no token is configured.
type Router struct {
	Base  gin.IRouter
	Token string
}

func (cr *Router) baseExec(c *gin.Context, handler gin.HandlerFunc) {
	if cr.Token == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "disabled"})
		return
	}
	token := c.GetHeader(tokenHeader)
	if token == "" {
		token = c.Query("token")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(cr.Token)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	handler(c)
}

func (cr *Router) POST(path string, handler gin.HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) GET(path string, handler gin.HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}
