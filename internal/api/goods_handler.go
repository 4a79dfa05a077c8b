package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Olatundeawo/ordora/internal/entity"
	"github.com/Olatundeawo/ordora/internal/service"
)

type GoodsHandler struct {
	goodsService *service.GoodsService
}

// NewGoodsHandler creates a new instance of GoodsHandler.
func NewGoodsHandler(goodsService *service.GoodsService) *GoodsHandler {
	return &GoodsHandler{goodsService: goodsService}
}

// List returns all listed goods --> GET /goods (public)
func (h *GoodsHandler) List(c echo.Context) error {
	goods, err := h.goodsService.List(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, goods)
}

// Get returns one goods row --> GET /goods/:id
func (h *GoodsHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	g, err := h.goodsService.Get(c.Request().Context(), id)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Create lists new goods for the authenticated producer --> POST /goods
func (h *GoodsHandler) Create(c echo.Context) error {
	claims := claimsFrom(c)

	g := entity.Goods{}
	if err := c.Bind(&g); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.goodsService.Create(c.Request().Context(), claims.UserID, &g)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update edits goods owned by the caller --> PUT /goods/:id
func (h *GoodsHandler) Update(c echo.Context) error {
	claims := claimsFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	g := entity.Goods{}
	if err := c.Bind(&g); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	g.ID = id

	updated, err := h.goodsService.Update(c.Request().Context(), claims.UserID, &g)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes goods owned by the caller --> DELETE /goods/:id
func (h *GoodsHandler) Delete(c echo.Context) error {
	claims := claimsFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	if err := h.goodsService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return errJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Mine returns the authenticated producer's goods --> GET /goods/me
func (h *GoodsHandler) Mine(c echo.Context) error {
	claims := claimsFrom(c)

	goods, err := h.goodsService.ListByProducer(c.Request().Context(), claims.UserID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, goods)
}
