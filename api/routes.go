package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/service/routes"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	service routes.RouteUseCase
	log     logger.Logger
}

func NewRouteHandler(service routes.RouteUseCase, log logger.Logger) *RouteHandler {
	return &RouteHandler{service: service, log: log}
}

func (h *RouteHandler) Register(router *gin.RouterGroup) {
	router.GET("/routes", h.list)
	router.GET("/routes/:id", h.get)
	router.GET("/airlines", h.airlines)
	router.GET("/aircraft", h.aircraft)
}

func (h *RouteHandler) list(c *gin.Context) {
	input, err := parseSearch(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	page, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RouteHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	aircraft, ok := c.GetQuery("aircraft")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aircraft parameter is required"})
		return
	}

	view, err := h.service.Detail(c.Request.Context(), id, aircraft)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RouteHandler) airlines(c *gin.Context) {
	airlines, err := h.service.Airlines(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airlines)
}

func (h *RouteHandler) aircraft(c *gin.Context) {
	aircraft, err := h.service.Aircraft(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, aircraft)
}

func (h *RouteHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	default:
		h.log.Error("request failed",
			"request_id", c.GetString(requestIDKey),
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseSearch(c *gin.Context) (routes.SearchInput, error) {
	input := routes.SearchInput{
		Airline:  c.Query("airline"),
		Aircraft: c.Query("aircraft"),
		Page:     1,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return input, fmt.Errorf("%w: page must be a positive integer", domain.ErrInvalidInput)
		}
		input.Page = page
	}

	var err error
	if input.MinDuration, err = optionalInt(c, "minDuration"); err != nil {
		return input, err
	}
	if input.MaxDuration, err = optionalInt(c, "maxDuration"); err != nil {
		return input, err
	}
	return input, nil
}

func optionalInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return &v, nil
}
