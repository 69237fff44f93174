package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/app/bootstrap"
	"github.com/aihub/toolhub-go/internal/config"
	"github.com/aihub/toolhub-go/internal/logger"
)

// ToolController 工具目录控制器
type ToolController struct {
	BaseController
}

// List 返回目录全部工具
func (c *ToolController) List() {
	app := bootstrap.GetApp()
	if app == nil || app.CatalogService == nil {
		c.JSONError(http.StatusInternalServerError, "App instance not available")
		return
	}

	tools := app.CatalogService.ListTools()
	c.JSONSuccess(map[string]interface{}{
		"tools": tools,
		"total": len(tools),
	})
}

// Search 关键词搜索目录
func (c *ToolController) Search() {
	query := c.GetString("q")
	if query == "" {
		c.JSONError(http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, err := c.GetInt("limit", 20)
	if err != nil || limit <= 0 {
		limit = 20
	}

	app := bootstrap.GetApp()
	if app == nil || app.CatalogService == nil {
		c.JSONError(http.StatusInternalServerError, "App instance not available")
		return
	}

	tools, err := app.CatalogService.SearchTools(c.Ctx.Request.Context(), query, limit)
	if err != nil {
		logger.Error("tool search failed", zap.Error(err), zap.String("query", query))
		c.JSONError(http.StatusInternalServerError, "Search failed")
		return
	}
	c.JSONSuccess(map[string]interface{}{
		"tools": tools,
		"total": len(tools),
	})
}

// Reload 重建目录快照（管理端）
func (c *ToolController) Reload() {
	app := bootstrap.GetApp()
	if app == nil || app.CatalogService == nil {
		c.JSONError(http.StatusInternalServerError, "App instance not available")
		return
	}

	if err := app.CatalogService.Reload(c.Ctx.Request.Context()); err != nil {
		logger.Error("catalog reload failed", zap.Error(err))
		c.JSONError(http.StatusInternalServerError, "Reload failed")
		return
	}
	c.JSONSuccess(map[string]string{"message": "catalog reloaded"})
}

// RebuildEmbeddings 重算并持久化目录向量（管理端）
func (c *ToolController) RebuildEmbeddings() {
	app := bootstrap.GetApp()
	if app == nil || app.CatalogService == nil {
		c.JSONError(http.StatusInternalServerError, "App instance not available")
		return
	}

	model := ""
	if config.AppConfig != nil {
		model = config.AppConfig.AI.EmbeddingModel
	}

	updated, skipped, err := app.CatalogService.RebuildEmbeddings(c.Ctx.Request.Context(), model)
	if err != nil {
		logger.Error("embedding rebuild failed", zap.Error(err))
		c.JSONError(http.StatusInternalServerError, "Rebuild failed")
		return
	}
	c.JSONSuccess(map[string]interface{}{
		"updated": updated,
		"skipped": skipped,
	})
}
