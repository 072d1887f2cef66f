package http

import (
	"github.com/gin-gonic/gin"

	"policy-training-assistant/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/chat", mw.RequestID(), mw.RateLimit(), h.Chat)
}
