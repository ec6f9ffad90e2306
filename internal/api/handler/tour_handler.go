package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

type TourHandler struct {
	tourService ports.TourService
}

func NewTourHandler(tourService ports.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

type createTourRequest struct {
	Name         string  `json:"name" validate:"required"`
	Duration     int     `json:"duration" validate:"required,gt=0"`
	MaxGroupSize int     `json:"max_group_size" validate:"required,gt=0"`
	Difficulty   string  `json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Summary      string  `json:"summary" validate:"required"`
	Description  string  `json:"description"`
}

type updateTourRequest struct {
	Name         string  `json:"name"`
	Duration     int     `json:"duration" validate:"omitempty,gt=0"`
	MaxGroupSize int     `json:"max_group_size" validate:"omitempty,gt=0"`
	Difficulty   string  `json:"difficulty" validate:"omitempty,oneof=easy medium difficult"`
	Price        float64 `json:"price" validate:"omitempty,gt=0"`
	Summary      string  `json:"summary"`
	Description  string  `json:"description"`
}

// Create adds a new tour.
//
// @Summary      Create a tour
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        body  body      createTourRequest  true  "Tour details"
// @Success      201   {object}  domain.Tour
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /tours [post]
func (h *TourHandler) Create(c echo.Context) error {
	var req createTourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tour, err := h.tourService.Create(c.Request().Context(), ports.CreateTourInput{
		Name:         req.Name,
		Duration:     req.Duration,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   req.Difficulty,
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tour)
}

// List returns all tours.
//
// @Summary      List tours
// @Tags         tours
// @Produce      json
// @Success      200  {array}  domain.Tour
// @Router       /tours [get]
func (h *TourHandler) List(c echo.Context) error {
	tours, err := h.tourService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tours)
}

// Get returns a single tour by ID.
//
// @Summary      Get a tour
// @Tags         tours
// @Produce      json
// @Param        id  path      string  true  "Tour ID"
// @Success      200  {object}  domain.Tour
// @Failure      404  {object}  map[string]string
// @Router       /tours/{id} [get]
func (h *TourHandler) Get(c echo.Context) error {
	tour, err := h.tourService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tour)
}

// Update patches a tour.
//
// @Summary      Update a tour
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Tour ID"
// @Param        body  body      updateTourRequest  true  "Fields to update"
// @Success      200   {object}  domain.Tour
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /tours/{id} [patch]
func (h *TourHandler) Update(c echo.Context) error {
	var req updateTourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tour, err := h.tourService.Update(c.Request().Context(), c.Param("id"), ports.TourPatch{
		Name:         req.Name,
		Duration:     req.Duration,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   req.Difficulty,
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tour)
}

// Delete removes a tour.
//
// @Summary      Delete a tour
// @Tags         tours
// @Param        id  path  string  true  "Tour ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /tours/{id} [delete]
func (h *TourHandler) Delete(c echo.Context) error {
	if err := h.tourService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
