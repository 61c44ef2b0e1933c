package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	chatH *ChatHandler,
	triageH *TriageHandler,
	mediaH *MediaHandler,
	voiceH *VoiceHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/chat", chatH.PostChat)

	reviews := r.Group("/reviews")
	reviews.POST("", triageH.CreateReview)
	reviews.GET("", triageH.ListReviews)
	reviews.POST("/:id/analyze", triageH.AnalyzeReview)

	leads := r.Group("/leads")
	leads.POST("", triageH.CreateLead)
	leads.GET("", triageH.ListLeads)
	leads.POST("/:id/triage", triageH.TriageLead)

	media := r.Group("/media")
	media.POST("/image", mediaH.GenerateImage)
	media.POST("/video", mediaH.GenerateVideo)

	if voiceH != nil {
		r.GET("/voice", voiceH.Stream)
	}

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
