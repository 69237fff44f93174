package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/app/bootstrap"
	apperrors "github.com/aihub/toolhub-go/internal/errors"
	"github.com/aihub/toolhub-go/internal/logger"
)

var validate = validator.New()

// PredictRequest 推荐请求体
type PredictRequest struct {
	Input string `json:"input" validate:"required,max=10000"`
}

// PredictController 工具推荐控制器
type PredictController struct {
	BaseController
}

// Predict 对输入做分层理解并返回推荐工具
func (c *PredictController) Predict() {
	req, ok := c.parseRequest()
	if !ok {
		return
	}

	app := bootstrap.GetApp()
	if app == nil || app.RecommendationService == nil {
		c.JSONError(http.StatusInternalServerError, "App instance not available")
		return
	}

	prediction, err := app.RecommendationService.Predict(c.Ctx.Request.Context(), req.Input)
	if err != nil {
		c.writePredictionError(err)
		return
	}
	c.JSONSuccess(prediction)
}

// Debug 同Predict，附带中间产物，供排查推荐质量问题
func (c *PredictController) Debug() {
	req, ok := c.parseRequest()
	if !ok {
		return
	}

	app := bootstrap.GetApp()
	if app == nil || app.RecommendationService == nil {
		c.JSONError(http.StatusInternalServerError, "App instance not available")
		return
	}

	prediction, err := app.RecommendationService.DebugPredict(c.Ctx.Request.Context(), req.Input)
	if err != nil {
		c.writePredictionError(err)
		return
	}
	c.JSONSuccess(prediction)
}

func (c *PredictController) parseRequest() (*PredictRequest, bool) {
	var req PredictRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "Invalid request: "+err.Error())
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		c.JSONError(http.StatusBadRequest, "Invalid request: "+err.Error())
		return nil, false
	}
	return &req, true
}

func (c *PredictController) writePredictionError(err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Type == apperrors.ErrorTypeValidation {
		c.JSONError(http.StatusBadRequest, appErr.Message)
		return
	}
	logger.Error("prediction failed",
		zap.Error(err),
		zap.String("ip", c.getClientIP()))
	c.JSONError(http.StatusInternalServerError, "Prediction failed")
}
