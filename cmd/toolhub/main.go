package main

import (
	"log"
	"strconv"

	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/app/bootstrap"
	"github.com/aihub/toolhub-go/app/router"
	"github.com/aihub/toolhub-go/internal/config"
	"github.com/aihub/toolhub-go/internal/logger"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	// 初始化路由
	router.Init()

	// 配置Beego全局设置
	web.BConfig.AppName = "ToolHub Recommendation Service"
	web.BConfig.CopyRequestBody = true
	if p, err := strconv.Atoi(config.AppConfig.Server.Port); err == nil {
		web.BConfig.Listen.HTTPPort = p
	}

	logger.Info("🚀 Starting ToolHub Recommendation Service",
		zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
