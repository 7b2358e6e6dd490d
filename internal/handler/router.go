package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/middleware"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
)

// Handlers groups the HTTP surface for route registration.
type Handlers struct {
	Announcements *AnnouncementHandler
	Live          *LiveHandler
	Health        *HealthHandler
	Auth          *AuthHandler
	Teachers      *TeacherHandler
	Admissions    *AdmissionHandler
	Visits        *VisitHandler
	Registrations *RegistrationHandler
	Posts         *PostHandler
	Materials     *MaterialHandler
	Concerns      *ConcernHandler
	Exports       *ExportHandler
	Uploads       *UploadHandler

	Verifier middleware.TokenVerifier
}

// RegisterRoutes mounts every endpoint on the engine.
func (h Handlers) RegisterRoutes(r *gin.Engine) {
	// Realtime channel. Identity is the client-supplied userId parameter.
	r.GET("/ws", h.Live.Serve)

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	// The announcement board keeps the legacy open contract: no auth, legacy
	// response bodies.
	ann := api.Group("/announcements")
	{
		ann.POST("", h.Announcements.Create)
		ann.GET("", h.Announcements.List)
		ann.DELETE("", h.Announcements.ClearAll)
		ann.GET("/stats", h.Announcements.Stats)
		ann.GET("/unread-count/:userId", h.Announcements.UnreadCount)
		ann.POST("/mark-all-read", h.Announcements.MarkAllRead)
		ann.GET("/read-status/:announcementId", h.Announcements.ReadStatus)
		ann.POST("/:id/read", h.Announcements.MarkRead)
		ann.DELETE("/:id", h.Announcements.Delete)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RequireAuth(h.Verifier), middleware.RequireRole(models.RoleAdmin, models.RoleDirector), h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", middleware.RequireAuth(h.Verifier), h.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(h.Verifier), h.Auth.Me)
	}

	staffOnly := []gin.HandlerFunc{
		middleware.RequireAuth(h.Verifier),
		middleware.RequireRole(models.RoleAdmin, models.RoleDirector, models.RoleStaff),
	}
	adminOnly := []gin.HandlerFunc{
		middleware.RequireAuth(h.Verifier),
		middleware.RequireRole(models.RoleAdmin, models.RoleDirector),
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.POST("", append(adminOnly, h.Teachers.Create)...)
		teachers.PUT("/:id", append(adminOnly, h.Teachers.Update)...)
		teachers.DELETE("/:id", append(adminOnly, h.Teachers.Deactivate)...)
	}

	admissions := api.Group("/admissions")
	{
		admissions.POST("", h.Admissions.Create)
		admissions.GET("", append(staffOnly, h.Admissions.List)...)
		admissions.GET("/:id", append(staffOnly, h.Admissions.Get)...)
		admissions.PATCH("/:id/status", append(adminOnly, h.Admissions.UpdateStatus)...)
		admissions.DELETE("/:id", append(adminOnly, h.Admissions.Delete)...)
	}

	visits := api.Group("/visits")
	{
		visits.POST("", h.Visits.Create)
		visits.GET("", append(staffOnly, h.Visits.List)...)
		visits.GET("/:id", append(staffOnly, h.Visits.Get)...)
		visits.DELETE("/:id", append(staffOnly, h.Visits.Delete)...)
	}

	registrations := api.Group("/registrations")
	{
		registrations.POST("", h.Registrations.Create)
		registrations.GET("", append(staffOnly, h.Registrations.List)...)
		registrations.DELETE("/:id", append(staffOnly, h.Registrations.Delete)...)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", h.Posts.List)
		posts.GET("/all", append(staffOnly, h.Posts.ListAll)...)
		posts.GET("/:id", h.Posts.Get)
		posts.POST("/:id/like", h.Posts.Like)
		posts.POST("", append(staffOnly, h.Posts.Create)...)
		posts.PUT("/:id", append(staffOnly, h.Posts.Update)...)
		posts.DELETE("/:id", append(adminOnly, h.Posts.Delete)...)
	}

	materials := api.Group("/materials")
	{
		materials.GET("", h.Materials.List)
		materials.GET("/search/:query", h.Materials.Search)
		materials.GET("/stats/summary", h.Materials.Stats)
		materials.GET("/:id", h.Materials.Get)
		materials.GET("/:id/download", h.Materials.DownloadLink)
		materials.POST("", append(staffOnly, h.Materials.Create)...)
		materials.DELETE("/:id", append(adminOnly, h.Materials.Delete)...)
	}

	concerns := api.Group("/concerns")
	{
		concerns.POST("", h.Concerns.Create)
		concerns.GET("", append(staffOnly, h.Concerns.List)...)
		concerns.GET("/stats", append(staffOnly, h.Concerns.Stats)...)
		concerns.GET("/:id", append(staffOnly, h.Concerns.Get)...)
		concerns.PUT("/:id", append(staffOnly, h.Concerns.Update)...)
		concerns.DELETE("/:id", append(staffOnly, h.Concerns.Delete)...)
	}

	exports := api.Group("/exports")
	{
		exports.POST("/:resource", append(staffOnly, h.Exports.Export)...)
		exports.GET("/download", h.Exports.Download)
	}

	uploads := api.Group("/uploads")
	{
		uploads.POST("", append(staffOnly, h.Uploads.Upload)...)
		uploads.GET("", append(staffOnly, h.Uploads.List)...)
		uploads.GET("/download", h.Uploads.Download)
		uploads.GET("/:id/link", append(staffOnly, h.Uploads.SignedLink)...)
		uploads.DELETE("/:id", append(adminOnly, h.Uploads.Delete)...)
	}
}
