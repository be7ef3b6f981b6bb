// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package admin

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	adminerrors "github.com/gunplahub/api/admin/errors"
)

// reservedListKeys are query keys consumed by the pager/sort/search layer;
// everything else is treated as a field filter.
var reservedListKeys = map[string]bool{
	"search":    true,
	"sortBy":    true,
	"sortOrder": true,
	"page":      true,
	"limit":     true,
}

// Handler serves the generic admin CRUD endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the admin handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/:resource.
func (h *Handler) List(c *fiber.Ctx) error {
	params := ListParams{
		Search:         c.Query("search"),
		SortField:      c.Query("sortBy"),
		SortDescending: strings.EqualFold(c.Query("sortOrder"), "desc"),
		Page:           c.QueryInt("page", 1),
		PageSize:       c.QueryInt("limit", 20),
		Filters:        map[string][]string{},
	}

	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if reservedListKeys[k] {
			return
		}
		for _, part := range strings.Split(string(value), ",") {
			if part = strings.TrimSpace(part); part != "" {
				params.Filters[k] = append(params.Filters[k], part)
			}
		}
	})

	result, err := h.service.List(c.Context(), c.Params("resource"), params)
	if err != nil {
		return adminerrors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// Create handles POST /admin/:resource.
func (h *Handler) Create(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return adminerrors.HandleServiceError(c, err)
	}

	row, err := h.service.Create(c.Context(), c.Params("resource"), payload)
	if err != nil {
		return adminerrors.HandleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": row})
}

// Update handles PUT /admin/:resource/:id.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseRowID(c)
	if err != nil {
		return adminerrors.HandleServiceError(c, err)
	}
	payload, err := parsePayload(c)
	if err != nil {
		return adminerrors.HandleServiceError(c, err)
	}

	row, err := h.service.Update(c.Context(), c.Params("resource"), id, payload)
	if err != nil {
		return adminerrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"data": row})
}

// Delete handles DELETE /admin/:resource/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := parseRowID(c)
	if err != nil {
		return adminerrors.HandleServiceError(c, err)
	}

	if err := h.service.Delete(c.Context(), c.Params("resource"), id); err != nil {
		return adminerrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func parseRowID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, adminerrors.ErrInvalidRowID
	}
	return id, nil
}

func parsePayload(c *fiber.Ctx) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return nil, adminerrors.ErrEmptyPayload
	}
	return payload, nil
}
