package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wound-backend/internal/shared/server/respond"
	"wound-backend/internal/vision"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type analyzeRequestBody struct {
	Image              string         `json:"image"`
	ModelID            string         `json:"modelId"`
	IdentificationCode string         `json:"identificationCode"`
	PatientData        PatientContext `json:"patientData"`
}

type analyzeResponseBody struct {
	ClassificationResult
	SheetStatus string `json:"sheetStatus"`
}

func (h *Handler) createAnalysis(c *gin.Context) {
	var body analyzeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resp, err := h.Svc.Analyze(c.Request.Context(), AnalyzeRequest{
		Image:              body.Image,
		ModelID:            body.ModelID,
		IdentificationCode: body.IdentificationCode,
		Patient:            body.PatientData,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrImageRequired):
			respond.Error(c, http.StatusBadRequest, "validation_error", "image is required", nil)
		case errors.Is(err, ErrMalformedResponse):
			respond.Error(c, http.StatusBadGateway, "llm_schema_mismatch", "provider returned an unparseable classification", nil)
		case isProviderError(err):
			respond.Error(c, http.StatusBadGateway, "provider_error", "classification provider failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to run analysis", nil)
		}
		return
	}

	c.Set("analysisId", resp.AnalysisID)
	c.Set("provider", resp.Provider)
	c.Set("outcome", resp.Outcome)

	respond.OK(c, analyzeResponseBody{
		ClassificationResult: resp.Result,
		SheetStatus:          resp.SheetStatus,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.OK(c, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	analyses, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	respond.OK(c, gin.H{"analyses": analyses})
}

func isProviderError(err error) bool {
	var ve *vision.Error
	return errors.As(err, &ve) && ve.Kind == vision.KindProvider
}
