package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires all HTTP routes. Static paths are registered
// before parameterized ones so /stats is not captured by /:id.
func RegisterRoutes(e *echo.Echo, meetings *MeetingHandler, items *ActionItemHandler, webhooks *WebhookHandler) {
	e.GET("/health", Health)

	api := e.Group("/api")

	m := api.Group("/meetings")
	m.GET("/stats", meetings.Stats)
	m.GET("", meetings.List)
	m.POST("", meetings.Create)
	m.GET("/:id", meetings.Get)
	m.PATCH("/:id", meetings.Update)
	m.DELETE("/:id", meetings.Delete)
	m.POST("/:id/process", meetings.Process)

	a := api.Group("/action-items")
	a.GET("/stats", items.Stats)
	a.GET("/meeting/:meetingId", items.ListByMeeting)
	a.GET("", items.List)
	a.POST("", items.Create)
	a.GET("/:id", items.Get)
	a.PATCH("/:id", items.Update)
	a.DELETE("/:id", items.Delete)

	w := api.Group("/webhooks")
	w.GET("/nylas", webhooks.Challenge)
	w.POST("/nylas", webhooks.Receive)
}
