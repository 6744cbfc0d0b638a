package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/domain/dto"
	"github.com/skyfare/farecalc-service/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

// FareCalcConfigsHandler provides HTTP handlers for the agency display
// configuration routes.
type FareCalcConfigsHandler struct {
	configService service.FareCalcConfigService
	listCache     *configListCache
}

// NewFareCalcConfigsHandler creates a new FareCalcConfigsHandler instance.
func NewFareCalcConfigsHandler(configService service.FareCalcConfigService) *FareCalcConfigsHandler {
	return &FareCalcConfigsHandler{
		configService: configService,
		listCache:     newConfigListCache(30 * time.Second), // Default 30s cache
	}
}

// ListConfigs handles GET /api/fare-calc-configs requests.
//
// @Summary      List agency display configurations
// @Description  Returns stored agency display configuration records, most recent first
// @Tags         Fare Calc Configs
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        limit query int false "Limit number of results"
// @Success      200 {object} dto.SuccessResponse "Configuration records"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/fare-calc-configs [get]
func (h *FareCalcConfigsHandler) ListConfigs(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	// Unfiltered listings are cached briefly; limited queries go straight
	// through.
	if limit == 0 {
		if docs := h.listCache.get(); docs != nil {
			builder.SuccessOK(docs)
			return
		}
	}

	docs, err := h.configService.List(c.Request.Context(), limit)
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	if limit == 0 {
		h.listCache.set(docs)
	}

	builder.SuccessOK(docs)
}

// CreateConfig handles POST /api/fare-calc-configs requests.
//
// @Summary      Create an agency display configuration
// @Description  Stores a new active configuration record for the agency identity it names, deactivating any previous record for the same identity
// @Tags         Fare Calc Configs
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        request body dto.UpdateFareCalcConfigRequest true "Configuration record"
// @Success      201 {object} dto.SuccessResponse "Created configuration"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/fare-calc-configs [post]
func (h *FareCalcConfigsHandler) CreateConfig(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.UpdateFareCalcConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	doc, err := h.configService.Create(c.Request.Context(), &req.Config)
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	h.listCache.invalidate()
	builder.SuccessCreated(doc)
}

// UpdateConfig handles PUT /api/fare-calc-configs/:id requests.
//
// @Summary      Update an agency display configuration
// @Description  Replaces the configuration record with the given ID and bumps its version
// @Tags         Fare Calc Configs
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Configuration record ID"
// @Param        request body dto.UpdateFareCalcConfigRequest true "Configuration record"
// @Success      200 {object} dto.SuccessResponse "Updated configuration"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      404 {object} dto.ErrorResponse "Configuration not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/fare-calc-configs/{id} [put]
func (h *FareCalcConfigsHandler) UpdateConfig(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id := c.Param("id")
	if id == "" {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, nil)
		return
	}

	var req dto.UpdateFareCalcConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	doc, err := h.configService.Update(c.Request.Context(), id, &req.Config)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			builder.Error(http.StatusNotFound, dto.ErrCodeNotFound, err)
			return
		}
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	h.listCache.invalidate()
	builder.SuccessOK(doc)
}
