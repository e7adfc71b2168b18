package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/markodapap-sketch/odapap-sub001/internal/log"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
	"github.com/markodapap-sketch/odapap-sub001/internal/validate"
)

type HomeHandler struct {
	Catalog   *services.CatalogService
	Recommend *services.RecommendService
}

// Home renders the storefront feed: hero slides, categories, and the
// full listing set ordered by the requested sort mode (personalized by
// default).
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	sid := ensureSID(c)
	mode, ok := validate.SortMode(c.Query("sort"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "sort"})
		mode = "recommended"
	}

	cards, err := h.Recommend.Ranked(c.UserContext(), sid, mode)
	if err != nil {
		applog.Error(c, "home.feed.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the storefront. Please retry."})
	}

	cats, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "home.categories.fail", err, nil)
		cats = nil
	}
	// Hero content is decorative; a cache or DB miss never blocks the feed.
	slides, err := h.Catalog.HeroSlides(c.UserContext())
	if err != nil {
		slides = nil
	}
	settings, err := h.Catalog.Settings()
	if err != nil {
		settings = nil
	}

	return render(c, "home", fiber.Map{
		"Sort":       mode,
		"Listings":   cards,
		"Categories": cats,
		"Hero":       slides,
		"Settings":   settings,
	})
}

// Seller renders one seller's shopfront: their profile name and
// current listings.
func (h *HomeHandler) Seller(c *fiber.Ctx) error {
	sellerID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Seller not found"})
	}
	listings, err := h.Catalog.ListBySeller(sellerID, 1, 24)
	if err != nil {
		applog.Error(c, "seller.list.fail", err, map[string]any{"seller": sellerID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load this seller"})
	}
	if len(listings) == 0 {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Seller not found"})
	}

	name := "Seller"
	if profiles, err := h.Catalog.SellerProfiles(c.UserContext(), listings); err == nil {
		if u, ok := profiles[sellerID]; ok {
			if u.ShopName != "" {
				name = u.ShopName
			} else if u.Name != "" {
				name = u.Name
			}
		}
	}

	return render(c, "seller", fiber.Map{
		"SellerID":   sellerID,
		"SellerName": name,
		"Listings":   h.Catalog.Decorate(listings),
	})
}

// Category renders one category page with seller names resolved for
// each card.
func (h *HomeHandler) Category(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	listings, err := h.Catalog.ListByCategory(catID, 1, 24)
	if err != nil {
		applog.Error(c, "category.list.fail", err, map[string]any{"category": catID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load this category"})
	}
	cards := h.Catalog.Decorate(listings)

	sellers, err := h.Catalog.SellerProfiles(c.UserContext(), listings)
	if err != nil {
		applog.Error(c, "category.sellers.fail", err, map[string]any{"category": catID})
		sellers = nil
	}
	for i := range cards {
		if u, ok := sellers[cards[i].UploaderID]; ok {
			cards[i].SellerName = u.ShopName
			if cards[i].SellerName == "" {
				cards[i].SellerName = u.Name
			}
		}
	}

	return render(c, "category", fiber.Map{"CategoryID": catID, "Listings": cards})
}
