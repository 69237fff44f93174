package router

import (
	"github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aihub/toolhub-go/app/controllers"
)

// Init registers all routes. Must be called after config is loaded.
func Init() {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")

	// 推荐路由
	predictController := &controllers.PredictController{}
	web.Router("/api/predict", predictController, "post:Predict")
	web.Router("/api/predict/debug", predictController, "post:Debug")

	// 目录路由
	toolController := &controllers.ToolController{}
	web.Router("/api/tools", toolController, "get:List")
	web.Router("/api/tools/search", toolController, "get:Search")
	web.Router("/api/tools/reload", toolController, "post:Reload")
	web.Router("/api/tools/embeddings/rebuild", toolController, "post:RebuildEmbeddings")

	// Prometheus指标
	web.Handler("/metrics", promhttp.Handler())
}
