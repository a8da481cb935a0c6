package http

import (
	"net/http"
	"strconv"

	"newsbrief/internal/api/service"
	"newsbrief/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GenerationHandler handles HTTP requests for pipeline run history.
type GenerationHandler struct {
	generationService service.GenerationService
	logger            *logger.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService service.GenerationService, logger *logger.Logger) *GenerationHandler {
	return &GenerationHandler{generationService: generationService, logger: logger}
}

// RegisterRoutes registers the generation routes to the Echo group.
func (h *GenerationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListGenerations)
	g.GET("/:id", h.GetGenerationByID)
}

// ListGenerations godoc
// @Summary List generation runs
// @Description List recent story generation runs, newest first
// @Tags generations
// @Produce  json
// @Param   limit   query   int false   "Page size (default 20, max 100)"
// @Success 200 {array} dto.GenerationResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generations [get]
func (h *GenerationHandler) ListGenerations(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	generations, err := h.generationService.ListGenerations(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list generations", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list generations"})
	}
	return c.JSON(http.StatusOK, generations)
}

// GetGenerationByID godoc
// @Summary Get a generation run
// @Description Get a single story generation run by its ID
// @Tags generations
// @Produce  json
// @Param   id  path    int true    "Generation ID"
// @Success 200 {object} dto.GenerationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generations/{id} [get]
func (h *GenerationHandler) GetGenerationByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid generation ID"})
	}

	generation, err := h.generationService.GetGenerationByID(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to get generation", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get generation"})
	}
	if generation == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Generation not found"})
	}
	return c.JSON(http.StatusOK, generation)
}
