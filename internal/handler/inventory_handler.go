package handler

import (
	"strings"

	"agriconnect-api/internal/model"
	"agriconnect-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyHeader lets a buyer retry an order without placing it twice.
const IdempotencyHeader = "Idempotency-Key"

type InventoryHandler struct {
	catalog service.CatalogService
	orders  service.OrderService
}

func NewInventoryHandler(catalog service.CatalogService, orders service.OrderService) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, orders: orders}
}

// --- Products ---

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListVisibleProducts(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	res := make([]model.ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, products[i].ToResponse())
	}
	return c.JSON(res)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product.ToResponse())
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), currentUser(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(product.ToResponse())
}

// UpdateProduct edits the caller's own listing
// PUT/PATCH /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), currentUser(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product.ToResponse())
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Orders ---

func (h *InventoryHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	res := make([]model.OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, orders[i].ToResponse())
	}
	return c.JSON(res)
}

func (h *InventoryHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orders.GetOrder(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order.ToResponse())
}

// CreateOrder places an order and decrements stock atomically
// POST /api/v1/orders
func (h *InventoryHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.IdempotencyKey = strings.TrimSpace(c.Get(IdempotencyHeader))

	order, err := h.orders.PlaceOrder(c.UserContext(), currentUser(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(order.ToResponse())
}
