package api

import (
	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	router.POST("/forecast", h.Forecast)
	router.POST("/customer-products", h.CustomerProducts)

	api := router.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/forecast/:horizon", h.SalesForecast)

	crm := api.Group("/crm")
	{
		crm.GET("/segments", h.Segments)
		crm.GET("/sample-customers", h.SampleCustomers)
	}

	insights := api.Group("/insights")
	{
		insights.GET("/top-products", h.TopProducts)
		insights.GET("/retention", h.Retention)
		insights.GET("/future-winners", h.FutureWinners)
	}

	api.POST("/admin/refresh", h.Refresh)
	return router
}
