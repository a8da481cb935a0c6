package http

import (
	"net/http"
	"strconv"

	"newsbrief/internal/api/dto"
	"newsbrief/internal/api/service"
	"newsbrief/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FeedHandler handles HTTP requests for feed subscriptions.
type FeedHandler struct {
	feedService service.FeedService
	logger      *logger.Logger
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService service.FeedService, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{feedService: feedService, logger: logger}
}

// RegisterRoutes registers the feed routes to the Echo group.
func (h *FeedHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateFeed)
	g.GET("", h.GetAllFeeds)
	g.PUT("/:id", h.UpdateFeed)
	g.DELETE("/:id", h.DeleteFeed)
}

// CreateFeed godoc
// @Summary Subscribe to a feed
// @Description Register a new RSS/Atom feed subscription
// @Tags feeds
// @Accept  json
// @Produce  json
// @Param   feed    body    dto.CreateFeedRequest   true    "Feed to subscribe"
// @Success 201 {object} dto.FeedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /feeds [post]
func (h *FeedHandler) CreateFeed(c echo.Context) error {
	var req dto.CreateFeedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	feed, err := h.feedService.CreateFeed(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, feed)
}

// GetAllFeeds godoc
// @Summary List feeds
// @Description List all feed subscriptions
// @Tags feeds
// @Produce  json
// @Success 200 {array} dto.FeedResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /feeds [get]
func (h *FeedHandler) GetAllFeeds(c echo.Context) error {
	feeds, err := h.feedService.GetAllFeeds(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list feeds", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list feeds"})
	}
	return c.JSON(http.StatusOK, feeds)
}

// UpdateFeed godoc
// @Summary Update a feed
// @Description Update an existing feed subscription
// @Tags feeds
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Feed ID"
// @Param   feed    body    dto.UpdateFeedRequest   true    "Feed fields to update"
// @Success 200 {object} dto.FeedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /feeds/{id} [put]
func (h *FeedHandler) UpdateFeed(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid feed ID"})
	}

	var req dto.UpdateFeedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	feed, err := h.feedService.UpdateFeed(c.Request().Context(), uint(id), &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update feed"})
	}
	if feed == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Feed not found"})
	}
	return c.JSON(http.StatusOK, feed)
}

// DeleteFeed godoc
// @Summary Unsubscribe a feed
// @Description Delete a feed subscription; ingested articles are kept
// @Tags feeds
// @Produce  json
// @Param   id  path    int true    "Feed ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /feeds/{id} [delete]
func (h *FeedHandler) DeleteFeed(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid feed ID"})
	}

	if err := h.feedService.DeleteFeed(c.Request().Context(), uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete feed"})
	}
	return c.NoContent(http.StatusNoContent)
}
