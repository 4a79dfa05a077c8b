package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Olatundeawo/ordora/internal/entity"
	"github.com/Olatundeawo/ordora/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create places an order for the authenticated customer --> POST /orders
func (h *OrderHandler) Create(c echo.Context) error {
	claims := claimsFrom(c)

	req := struct {
		Items []entity.OrderItemRequest `json:"items"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), claims.UserID, req.Items)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// CustomerOrders lists the caller's orders --> GET /orders/customer
func (h *OrderHandler) CustomerOrders(c echo.Context) error {
	claims := claimsFrom(c)

	orders, err := h.orderService.ListCustomerOrders(c.Request().Context(), claims.UserID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ProducerOrders lists orders containing the caller's goods --> GET /orders/producer
func (h *OrderHandler) ProducerOrders(c echo.Context) error {
	claims := claimsFrom(c)

	orders, err := h.orderService.ListProducerOrders(c.Request().Context(), claims.UserID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns one order --> GET /orders/:id
// Customers see their own orders; producers see orders containing their goods.
func (h *OrderHandler) Get(c echo.Context) error {
	claims := claimsFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	var order *entity.Order
	if claims.Role == entity.RoleProducer {
		order, err = h.orderService.GetOrderForProducer(c.Request().Context(), claims.UserID, id)
	} else {
		order, err = h.orderService.GetOrderForCustomer(c.Request().Context(), claims.UserID, id)
	}
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
