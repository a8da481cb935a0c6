package http

import (
	"net/http"
	"strconv"

	"newsbrief/internal/api/dto"
	"newsbrief/internal/api/service"
	"newsbrief/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StoryHandler handles HTTP requests for stories.
type StoryHandler struct {
	storyService service.StoryService
	logger       *logger.Logger
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(storyService service.StoryService, logger *logger.Logger) *StoryHandler {
	return &StoryHandler{storyService: storyService, logger: logger}
}

// RegisterRoutes registers the story routes to the Echo group.
func (h *StoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListStories)
	g.POST("/generate", h.GenerateStories)
	g.GET("/:id", h.GetStoryByID)
	g.GET("/:id/versions", h.GetStoryVersions)
	g.POST("/:id/archive", h.ArchiveStory)
	g.DELETE("/:id", h.DeleteStory)
}

// ListStories godoc
// @Summary List stories
// @Description List synthesized stories, filtered by status and topic
// @Tags stories
// @Produce  json
// @Param   status  query   string  false   "Story status (default active)"
// @Param   topic   query   string  false   "Topic filter"
// @Param   order_by    query   string  false   "Ordering: importance (default), freshness, last_updated, first_seen"
// @Param   limit   query   int false   "Page size (default 20, max 100)"
// @Param   offset  query   int false   "Page offset"
// @Success 200 {array} dto.StoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stories [get]
func (h *StoryHandler) ListStories(c echo.Context) error {
	var req dto.ListStoriesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid query parameters"})
	}

	stories, err := h.storyService.ListStories(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Failed to list stories", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list stories"})
	}
	return c.JSON(http.StatusOK, stories)
}

// GenerateStories godoc
// @Summary Trigger story generation
// @Description Enqueue an on-demand story generation run
// @Tags stories
// @Accept  json
// @Produce  json
// @Param   request body    dto.GenerateStoriesRequest  false   "Run parameters"
// @Success 202 {object} dto.GenerateStoriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stories/generate [post]
func (h *StoryHandler) GenerateStories(c echo.Context) error {
	var req dto.GenerateStoriesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if err := h.storyService.TriggerGeneration(c.Request().Context(), &req); err != nil {
		h.logger.Error("Failed to trigger generation", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to trigger generation"})
	}
	return c.JSON(http.StatusAccepted, dto.GenerateStoriesResponse{Status: "queued"})
}

// GetStoryByID godoc
// @Summary Get a story
// @Description Get a single story with its member articles
// @Tags stories
// @Produce  json
// @Param   id  path    int true    "Story ID"
// @Success 200 {object} dto.StoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stories/{id} [get]
func (h *StoryHandler) GetStoryByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid story ID"})
	}

	story, err := h.storyService.GetStoryByID(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to get story", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get story"})
	}
	if story == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Story not found"})
	}
	return c.JSON(http.StatusOK, story)
}

// GetStoryVersions godoc
// @Summary Get story versions
// @Description Get the full version history of a story, newest first
// @Tags stories
// @Produce  json
// @Param   id  path    int true    "Story ID"
// @Success 200 {array} dto.StoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stories/{id}/versions [get]
func (h *StoryHandler) GetStoryVersions(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid story ID"})
	}

	versions, err := h.storyService.GetStoryVersions(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to get story versions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get story versions"})
	}
	return c.JSON(http.StatusOK, versions)
}

// ArchiveStory godoc
// @Summary Archive a story
// @Description Mark a story as archived
// @Tags stories
// @Produce  json
// @Param   id  path    int true    "Story ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stories/{id}/archive [post]
func (h *StoryHandler) ArchiveStory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid story ID"})
	}

	if err := h.storyService.ArchiveStory(c.Request().Context(), uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to archive story"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteStory godoc
// @Summary Delete a story
// @Description Delete a story and its article links
// @Tags stories
// @Produce  json
// @Param   id  path    int true    "Story ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stories/{id} [delete]
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid story ID"})
	}

	if err := h.storyService.DeleteStory(c.Request().Context(), uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete story"})
	}
	return c.NoContent(http.StatusNoContent)
}
