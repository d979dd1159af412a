package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerHomeRoutes sets up the root and health endpoints. The root is also
// the redirect target of the role gate when a caller's role is denied a path.
func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", home)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
}

func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "tailor-shop-app",
		"docs":    "/swagger/index.html",
	})
}
