package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
	applog "github.com/markodapap-sketch/odapap-sub001/internal/log"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
	"github.com/markodapap-sketch/odapap-sub001/internal/validate"
)

type WishlistHandler struct {
	Wish    *services.WishlistService
	Catalog *services.CatalogService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Wish.List(sid)
	if err != nil {
		applog.Error(c, "wishlist.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load wishlist"})
	}
	return render(c, "wishlist", fiber.Map{"Items": items})
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Wish.Save(sid, id); err != nil {
		applog.Error(c, "wishlist.save.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not save item")
	}
	// redirect back to listing or wishlist
	back := c.Get("Referer")
	if back == "" {
		back = "/wishlist"
	}
	applog.Audit(c, "wishlist.save", map[string]any{"listing": id})
	return c.Redirect(back)
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Wish.Unsave(sid, id); err != nil {
		applog.Error(c, "wishlist.unsave.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not unsave item")
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"listing": id})
	return c.Redirect("/wishlist")
}

// Compare renders the side-by-side tray with full quotes for each
// member.
func (h *WishlistHandler) Compare(c *fiber.Ctx) error {
	sid := ensureSID(c)
	ids, err := h.Wish.CompareIDs(sid)
	if err != nil {
		applog.Error(c, "compare.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load comparison"})
	}
	var listings []domain.Listing
	for _, id := range ids {
		l, err := h.Catalog.GetListing(id)
		if err != nil || l.ID == "" {
			continue
		}
		listings = append(listings, l)
	}
	return render(c, "compare", fiber.Map{"Items": h.Catalog.Decorate(listings)})
}

func (h *WishlistHandler) AddCompare(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Wish.AddCompare(sid, id); err != nil {
		if err == services.ErrCompareFull {
			return c.Status(fiber.StatusConflict).SendString("You can compare up to 4 items")
		}
		applog.Error(c, "compare.add.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not add to comparison")
	}
	back := c.Get("Referer")
	if back == "" {
		back = "/compare"
	}
	return c.Redirect(back)
}

func (h *WishlistHandler) RemoveCompare(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Wish.RemoveCompare(sid, id); err != nil {
		applog.Error(c, "compare.remove.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not remove from comparison")
	}
	return c.Redirect("/compare")
}
