package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixmate/handlers"
	"fixmate/utils"
)

// HandlerBundle aggregates all route handlers.
type HandlerBundle struct {
	Dispatch   *handlers.DispatchHandler
	Contractor *handlers.ContractorHandler
	Services   *handlers.ServicesHandler
}

// RegisterRoutes registers all endpoints on the router.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	dispatch := r.Group("/api/dispatch")
	{
		dispatch.POST("/session", b.Dispatch.StartDispatch)
		dispatch.GET("/session/:sessionID", b.Dispatch.GetStatus)
		dispatch.DELETE("/session/:sessionID", b.Dispatch.Cancel)
	}

	contractors := r.Group("/api/contractors")
	{
		contractors.POST("", b.Contractor.RegisterContractor)
		contractors.GET("/:id", b.Contractor.GetContractorByID)
		contractors.PUT("/:id", b.Contractor.UpdateContractor)
		contractors.DELETE("/:id", b.Contractor.DeleteContractor)
	}

	services := r.Group("/api/services")
	{
		services.GET("", b.Services.ListServices)
		services.GET("/:serviceID/quote", b.Services.QuotePrice)
	}
}
