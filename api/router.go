package api

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the REST surface onto the router. Auth and correlation
// middlewares are attached by the caller.
func RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/login", Login)
	r.POST("/auth/logout", Logout)
	r.GET("/auth/me", Me)
	r.GET("/users", ListUsers)

	register := r.Group("/cash-register")
	{
		register.GET("/session", GetCurrentSession)
		register.POST("/session/open", OpenSession)
		register.POST("/session/close", CloseSession)
		register.GET("/session/:id", GetSessionDetail)
		register.GET("/session/:id/balance", GetSessionBalance)

		register.POST("/movements", RecordMovement)
		register.GET("/movements", ListMovements)

		register.GET("/history", GetSessionHistory)
		register.GET("/history/export", ExportSessionHistory)

		register.GET("/settings", GetSettings)
		register.PUT("/settings", UpdateSettings)
	}
}
