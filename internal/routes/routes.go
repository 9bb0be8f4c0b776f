package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nostalgic/widgets/internal/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures the widget routes. actionLimit guards every visitor action and
// pageCache fronts the visitor-independent views; both may be nil.
func Setup(
	router *gin.Engine,
	widgetHandler *handler.WidgetHandler,
	healthHandler *handler.HealthHandler,
	actionLimit gin.HandlerFunc,
	pageCache gin.HandlerFunc,
	metricsPath string,
) {
	router.GET("/healthz", healthHandler.Healthz)
	if metricsPath != "" {
		router.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	widgets := router.Group("/widgets")

	// Views (attribute snapshots)
	widgets.GET("/bbs", widgetHandler.GetBBS)
	widgets.GET("/counter", widgetHandler.GetCounter)
	widgets.GET("/like", widgetHandler.GetLike)

	cached := widgets.Group("")
	if pageCache != nil {
		cached.Use(pageCache)
	}
	cached.GET("/ranking", widgetHandler.GetRanking)
	cached.GET("/yokoso", widgetHandler.GetYokoso)

	// Visitor actions
	actions := widgets.Group("")
	if actionLimit != nil {
		actions.Use(actionLimit)
	}
	actions.POST("/like/toggle", widgetHandler.ToggleLike)

	bbs := actions.Group("/bbs/:instance")
	{
		bbs.POST("/draft", widgetHandler.SaveDraft)
		bbs.POST("/submit", widgetHandler.Submit)
		bbs.POST("/edit", widgetHandler.Edit)
		bbs.POST("/cancel", widgetHandler.Cancel)
		bbs.POST("/delete", widgetHandler.Delete)
		bbs.POST("/page", widgetHandler.GoToPage)
	}
}
