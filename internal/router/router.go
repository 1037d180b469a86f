package router

import (
	"net/http"
	"strings"
	"vetka/internal/api"
	"vetka/internal/handlers"
	"vetka/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	profileHandler := handlers.NewProfileHandler()

	// Public Routes
	r.GET("/", postHandler.Index)                 // global feed
	r.GET("/group/:slug", postHandler.GroupPosts) // group feed
	r.GET("/search", postHandler.Search)          // substring search

	r.GET("/auth/signup", authHandler.ShowSignup)
	r.POST("/auth/signup", authHandler.Signup)
	r.GET("/auth/login", authHandler.ShowLogin)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/new", postHandler.ShowCreate)   // create post page
		authorized.POST("/new", postHandler.Create)      // submit new post
		authorized.GET("/follow", postHandler.FollowIndex) // home feed
	}

	// Username-scoped routes. Static segments above win over the wildcard,
	// so these must be registered after the fixed paths.
	r.GET("/:username", profileHandler.Profile)
	r.GET("/:username/follow", middleware.AuthRequired(), profileHandler.Follow)
	r.GET("/:username/unfollow", middleware.AuthRequired(), profileHandler.Unfollow)
	r.GET("/:username/:post_id", postHandler.Detail)
	r.GET("/:username/:post_id/edit", middleware.AuthRequired(), postHandler.ShowEdit)
	r.POST("/:username/:post_id/edit", middleware.AuthRequired(), postHandler.Edit)
	r.GET("/:username/:post_id/delete", middleware.AuthRequired(), postHandler.Delete)
	r.POST("/:username/:post_id/comment", middleware.AuthRequired(), postHandler.AddComment)
	r.GET("/:username/:post_id/comment/:comment_id/delete", middleware.AuthRequired(), postHandler.DeleteComment)

	// REST API
	v1 := r.Group("/api/v1")
	v1.Use(middleware.LoadTokenUser())
	api.Register(v1)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		handlers.NotFound(c)
	})
}
