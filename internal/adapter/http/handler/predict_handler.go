package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saralopezbz/iris-predictor/internal/domain/entity"
	"github.com/saralopezbz/iris-predictor/internal/usecase"
)

// PredictHandler handles model information and prediction requests
type PredictHandler struct {
	predictUC usecase.PredictUsecase
	logger    *zap.Logger
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictUC usecase.PredictUsecase, logger *zap.Logger) *PredictHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictHandler{predictUC: predictUC, logger: logger}
}

// HomeResponse is the body of GET /
type HomeResponse struct {
	Message   string           `json:"message"`
	Status    string           `json:"status"`
	ModelInfo entity.ModelInfo `json:"model_info"`
}

// Home handles GET /
func (h *PredictHandler) Home(c *gin.Context) {
	info := entity.ModelInfo{TargetClasses: []string{}}
	if h.predictUC != nil {
		info = *h.predictUC.Info()
	}

	h.respond(c, HomeResponse{
		Message:   "API ready",
		Status:    "operational",
		ModelInfo: info,
	})
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	body, err := ParseJSONBody(c)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	output, err := h.predictUC.Predict(c.Request.Context(), body)
	if err != nil {
		var vErr *usecase.ValidationError
		if !errors.As(err, &vErr) {
			h.logger.Error("Prediction failed",
				zap.String("request_id", c.GetString("request_id")),
				zap.Error(err),
			)
		}
		HandleUsecaseError(c, err)
		return
	}

	h.respond(c, output)
}

// respond writes a 200 body or, if it cannot be encoded, the generic 500
func (h *PredictHandler) respond(c *gin.Context, data interface{}) {
	if err := respondSuccess(c, http.StatusOK, data); err != nil {
		h.logger.Error("Failed to encode response",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		HandleUsecaseError(c, err)
	}
}
