package handlers

import (
	"net/url"

	"github.com/anjiri1684/agriconnect/reference"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Regions(c *fiber.Ctx) error {
	if crop := c.Query("crop"); crop != "" {
		return c.JSON(h.Catalog.RegionsForCrop(crop))
	}
	return c.JSON(h.Catalog.Regions())
}

func (h *Handler) Crops(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Crops())
}

func (h *Handler) Soil(c *fiber.Ctx) error {
	profile, err := h.Catalog.Soil(pathParam(c, "region"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *Handler) WeatherLocations(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.WeatherLocations())
}

func (h *Handler) Weather(c *fiber.Ctx) error {
	report, err := h.Catalog.Weather(pathParam(c, "location"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *Handler) CommunityGroups(c *fiber.Ctx) error {
	groups := h.Catalog.Groups(c.Query("q"), c.Query("category", reference.CategoryAll))
	return c.JSON(fiber.Map{
		"categories": h.Catalog.GroupCategories(),
		"groups":     groups,
	})
}

func (h *Handler) Articles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": h.Catalog.ArticleCategories(),
		"featured":   h.Catalog.FeaturedArticles(),
		"articles":   h.Catalog.Articles(c.Query("q"), c.Query("category", reference.CategoryAll)),
	})
}

// pathParam unescapes names such as "Cross%20River".
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
