package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusreview/pkg/logger"
	"campusreview/pkg/metrics"
)

const serviceName = "campus-service"

// Handlers - все обработчики сервиса для SetupRoutes
type Handlers struct {
	Comments *CommentHandler
	Courses  *CourseHandler
	Reviews  *ReviewHandler
	Auth     *AuthHandler
	Health   *HealthHandler
}

func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", h.Health.Health)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := authMiddleware.Authenticate()

	comments := router.Group("/comments")
	{
		comments.GET("/:type/:id", h.Comments.ListComments)
		// Также обслуживает POST /comments/:commentId/reply
		comments.POST("/:type/:id", auth, h.Comments.CreateOrReply)
		comments.DELETE("/:commentId", auth, h.Comments.DeleteComment)
	}

	courses := router.Group("/courses")
	{
		courses.POST("", h.Courses.CreateCourse)
		courses.GET("", h.Courses.ListCourses)
		courses.GET("/:id", h.Courses.GetCourse)
		courses.PUT("/:id", h.Courses.UpdateCourse)
		courses.PATCH("/:id", h.Courses.UpdateCourse)
		courses.DELETE("/:id", h.Courses.DeleteCourse)
		courses.POST("/:id/rating", auth, h.Courses.AddRating)
	}

	reviews := router.Group("/reviews")
	{
		reviews.POST("", h.Reviews.CreateReview)
		reviews.GET("", h.Reviews.ListReviews)
		reviews.GET("/:id", h.Reviews.GetReview)
		reviews.PUT("/:id", h.Reviews.UpdateReview)
		reviews.PATCH("/:id", h.Reviews.UpdateReview)
		reviews.DELETE("/:id", h.Reviews.DeleteReview)
	}

	router.POST("/auth/logout", auth, h.Auth.Logout)

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	} else {
		config.AllowOrigins = allowedOrigins
	}

	return config
}
