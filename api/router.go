package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface: public auth routes, the JWT-protected
// chat API and static serving of uploaded attachments.
func NewRouter(h *Handler, attachmentsRoot string, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	router.POST("/api/login", h.Login)
	router.POST("/api/register", h.Register)

	protected := router.Group("/api")
	protected.Use(JWTAuth())

	protected.GET("/projects/:projectId/messages", h.GetMessages)
	protected.POST("/messages", h.SendMessage)
	protected.PUT("/messages/:id", h.EditMessage)
	protected.DELETE("/messages/:id", h.DeleteMessage)

	protected.POST("/typing", h.SetTyping)
	protected.GET("/projects/:projectId/typing", h.GetTypingUsers)

	protected.GET("/unread", h.GetUnreadCounts)
	protected.POST("/projects/:projectId/read", h.MarkRead)

	protected.DELETE("/projects/:projectId/messages", h.ClearProjectChat)
	protected.GET("/projects/:projectId/search", h.Search)

	protected.POST("/upload", h.Upload)

	// Uploaded files are served straight from disk under their stored names.
	router.Static("/files", attachmentsRoot)

	return router
}
