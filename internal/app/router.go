// internal/app/router.go
package app

import (
	"net/http"

	authHandler "projexa-service/internal/handlers/auth"
	fileHandler "projexa-service/internal/handlers/file"
	notifyH "projexa-service/internal/handlers/notification"
	projectHandler "projexa-service/internal/handlers/project"
	recruitmentHandler "projexa-service/internal/handlers/recruitment"
	remunerationHandler "projexa-service/internal/handlers/remuneration"
	sprintHandler "projexa-service/internal/handlers/sprint"
	subscriptionHandler "projexa-service/internal/handlers/subscription"
	taskHandler "projexa-service/internal/handlers/task"
	wsHandler "projexa-service/internal/handlers/websocket"
	"projexa-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by SetupRouter.
type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	ProjectHandler      *projectHandler.ProjectHandler
	TaskHandler         *taskHandler.TaskHandler
	SprintHandler       *sprintHandler.SprintHandler
	FileHandler         *fileHandler.FileHandler
	RecruitmentHandler  *recruitmentHandler.RecruitmentHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	RemunerationHandler *remunerationHandler.RemunerationHandler
	NotifHandler        *notifyH.NotificationHandler
	WSHandler           *wsHandler.WebSocketHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// WebSocket endpoint sits outside the API prefix; the hub does its
	// own token check during the handshake.
	r.GET("/ws", h.WSHandler.HandleConnection)

	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----- Auth -----
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/forgot-password", h.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", h.AuthHandler.ResetPassword)
	}

	authed := api.Group("/auth")
	authed.Use(h.AuthMiddleware.Auth())
	{
		authed.POST("/logout", h.AuthHandler.Logout)
		authed.POST("/logout-all", h.AuthHandler.LogoutAll)
		authed.POST("/change-password", h.AuthHandler.ChangePassword)
		authed.GET("/me", h.AuthHandler.GetProfile)
		authed.PATCH("/me", h.AuthHandler.UpdateProfile)
	}

	api.GET("/users", append(h.AuthMiddleware.AdminOnly(), h.AuthHandler.ListUsers)...)

	// ----- Projects -----
	projects := api.Group("/projects")
	projects.Use(h.AuthMiddleware.Auth())
	{
		projects.POST("", h.ProjectHandler.Create)
		projects.GET("", h.ProjectHandler.List)
		projects.GET("/:id", h.ProjectHandler.Get)
		projects.PATCH("/:id", h.ProjectHandler.Update)
		projects.DELETE("/:id", h.ProjectHandler.Delete)
		projects.POST("/:id/status", h.ProjectHandler.ChangeStatus)

		projects.GET("/:id/members", h.ProjectHandler.ListMembers)
		projects.POST("/:id/members", h.ProjectHandler.AddMember)
		projects.PATCH("/:id/members/:user_id", h.ProjectHandler.UpdateMember)
		projects.DELETE("/:id/members/:user_id", h.ProjectHandler.RemoveMember)

		projects.GET("/:id/meetings", h.ProjectHandler.ListMeetings)
		projects.POST("/:id/meetings", h.ProjectHandler.ScheduleMeeting)
	}

	// ----- Tasks -----
	tasks := api.Group("/tasks")
	tasks.Use(h.AuthMiddleware.Auth())
	{
		tasks.POST("", h.TaskHandler.Create)
		tasks.GET("", h.TaskHandler.List)
		tasks.GET("/:id", h.TaskHandler.Get)
		tasks.PATCH("/:id", h.TaskHandler.Update)
		tasks.DELETE("/:id", h.TaskHandler.Delete)
		tasks.GET("/:id/comments", h.TaskHandler.ListComments)
		tasks.POST("/:id/comments", h.TaskHandler.AddComment)
	}

	// ----- Sprints -----
	sprints := api.Group("/sprints")
	sprints.Use(h.AuthMiddleware.Auth())
	{
		sprints.POST("", h.SprintHandler.Create)
		sprints.GET("", h.SprintHandler.ListByProject)
		sprints.GET("/:id", h.SprintHandler.Get)
		sprints.PATCH("/:id", h.SprintHandler.Update)
		sprints.DELETE("/:id", h.SprintHandler.Delete)
	}

	// ----- Files -----
	files := api.Group("/files")
	files.Use(h.AuthMiddleware.Auth())
	{
		files.POST("", h.FileHandler.Upload)
		files.GET("", h.FileHandler.ListByProject)
		files.GET("/:id/download", h.FileHandler.Download)
		files.DELETE("/:id", h.FileHandler.Delete)
	}

	// ----- Recruitments -----
	// Listing, reading and applying are public so candidates do not need
	// an account.
	recruitments := api.Group("/recruitments")
	{
		recruitments.GET("", h.RecruitmentHandler.List)
		recruitments.GET("/:id", h.RecruitmentHandler.Get)
		recruitments.POST("/:id/apply", h.RecruitmentHandler.Apply)
	}

	recruitmentAdmin := api.Group("/recruitments")
	recruitmentAdmin.Use(h.AuthMiddleware.Auth())
	{
		recruitmentAdmin.POST("", h.RecruitmentHandler.Create)
		recruitmentAdmin.PATCH("/:id", h.RecruitmentHandler.Update)
		recruitmentAdmin.POST("/:id/publish", h.RecruitmentHandler.Publish)
		recruitmentAdmin.DELETE("/:id", h.RecruitmentHandler.Delete)
		recruitmentAdmin.GET("/:id/applications", h.RecruitmentHandler.ListApplications)
		recruitmentAdmin.PATCH("/:id/applications/:application_id", h.RecruitmentHandler.UpdateApplicationStatus)
	}

	// ----- Subscription plans -----
	plans := api.Group("/plans")
	{
		plans.GET("", h.AuthMiddleware.Auth(), h.SubscriptionHandler.ListPlans)
		plans.GET("/:id", h.AuthMiddleware.Auth(), h.SubscriptionHandler.GetPlan)
		plans.POST("", append(h.AuthMiddleware.AdminOnly(), h.SubscriptionHandler.CreatePlan)...)
		plans.PATCH("/:id", append(h.AuthMiddleware.AdminOnly(), h.SubscriptionHandler.UpdatePlan)...)
	}

	// ----- Subscriptions -----
	// The payment provider posts webhooks unauthenticated; the handler
	// verifies the HMAC signature before trusting the payload.
	api.POST("/webhooks/fedapay", h.SubscriptionHandler.PaymentWebhook)

	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.POST("/checkout", h.SubscriptionHandler.Checkout)
		subscriptions.GET("", h.SubscriptionHandler.List)
		subscriptions.GET("/current", h.SubscriptionHandler.GetCurrent)
		subscriptions.GET("/:id", h.SubscriptionHandler.Get)
		subscriptions.POST("/:id/cancel", h.SubscriptionHandler.Cancel)
	}

	// ----- Remunerations -----
	remunerations := api.Group("/remunerations")
	remunerations.Use(h.AuthMiddleware.Auth())
	{
		remunerations.POST("", h.RemunerationHandler.Create)
		remunerations.GET("", h.RemunerationHandler.List)
		remunerations.GET("/:id", h.RemunerationHandler.Get)
		remunerations.POST("/:id/pay", h.RemunerationHandler.Pay)
		remunerations.POST("/:id/cancel", h.RemunerationHandler.Cancel)
	}

	// ----- Notifications -----
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth())
	{
		notifications.GET("", h.NotifHandler.GetNotifications)
		notifications.GET("/unread-count", h.NotifHandler.GetUnreadCount)
		notifications.GET("/:id", h.NotifHandler.GetNotification)
		notifications.POST("/:id/read", h.NotifHandler.MarkAsRead)
		notifications.POST("/read-all", h.NotifHandler.MarkAllAsRead)
		notifications.DELETE("/:id", h.NotifHandler.Delete)
	}
}
