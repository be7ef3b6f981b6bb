// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	kiterrors "github.com/gunplahub/api/kits/errors"
	"github.com/gunplahub/api/kits/models"
	"github.com/gunplahub/api/kits/services"
	"github.com/gunplahub/api/kits/validation"
)

// csvParams are query keys whose values are comma-separated lists.
var csvParams = map[string]bool{
	"grade":    true,
	"series":   true,
	"timeline": true,
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// KitHandler serves the public catalog endpoints.
type KitHandler struct {
	service services.KitService
}

// NewKitHandler creates the catalog handler.
func NewKitHandler(service services.KitService) *KitHandler {
	return &KitHandler{service: service}
}

// ListKits handles GET /kits.
func (h *KitHandler) ListKits(c *fiber.Ctx) error {
	params, err := decodeListParams(c)
	if err != nil {
		return kiterrors.HandleValidationError(c, "Invalid query parameters", err.Error())
	}
	if err := validation.NormalizeListParams(params); err != nil {
		return kiterrors.HandleServiceError(c, err)
	}

	response, err := h.service.ListKits(c.Context(), *params)
	if err != nil {
		return kiterrors.HandleServiceError(c, err)
	}
	return c.JSON(response)
}

// GetKit handles GET /kits/:kitId.
func (h *KitHandler) GetKit(c *fiber.Ctx) error {
	id, err := parseKitID(c)
	if err != nil {
		return kiterrors.HandleServiceError(c, err)
	}

	detail, err := h.service.GetKit(c.Context(), id)
	if err != nil {
		return kiterrors.HandleServiceError(c, err)
	}
	return c.JSON(detail)
}

// GetRelated handles GET /kits/:kitId/related.
func (h *KitHandler) GetRelated(c *fiber.Ctx) error {
	id, err := parseKitID(c)
	if err != nil {
		return kiterrors.HandleServiceError(c, err)
	}

	related, err := h.service.GetRelated(c.Context(), id)
	if err != nil {
		return kiterrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"data": related})
}

// FilterOptions handles GET /filters.
func (h *KitHandler) FilterOptions(c *fiber.Ctx) error {
	options, err := h.service.FilterOptions(c.Context())
	if err != nil {
		return kiterrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"data": options})
}

func parseKitID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("kitId"), 10, 64)
	if err != nil || id < 1 {
		return 0, kiterrors.ErrInvalidKitID
	}
	return id, nil
}

// decodeListParams decodes the query string into ListKitsParams. CSV
// parameters are split into repeated values before decoding.
func decodeListParams(c *fiber.Ctx) (*models.ListKitsParams, error) {
	values := make(map[string][]string)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		v := string(value)
		if csvParams[k] {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					values[k] = append(values[k], part)
				}
			}
			return
		}
		values[k] = append(values[k], v)
	})

	var params models.ListKitsParams
	if err := queryDecoder.Decode(&params, values); err != nil {
		return nil, err
	}
	return &params, nil
}
