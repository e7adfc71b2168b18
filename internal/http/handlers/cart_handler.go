package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "github.com/markodapap-sketch/odapap-sub001/internal/log"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
	"github.com/markodapap-sketch/odapap-sub001/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	listingID, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	variation := c.FormValue("variation")
	qty := validate.Qty(c.FormValue("qty"), 1)

	if err := h.Cart.Add(sid, listingID, variation, qty); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"listing": listingID})
		return c.Status(500).SendString("Could not add item")
	}
	applog.Audit(c, "cart.add", map[string]any{"listing": listingID, "variation": variation, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	listingID, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	variation := c.FormValue("variation")

	// A zero quantity means "drop the line".
	if strings.TrimSpace(c.FormValue("qty")) == "0" {
		if err := h.Cart.Remove(sid, listingID, variation); err != nil {
			return c.Status(500).SendString("Could not update cart")
		}
		return c.Redirect("/cart")
	}
	qty := validate.Qty(c.FormValue("qty"), 1)
	if err := h.Cart.SetQty(sid, listingID, variation, qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"listing": listingID})
		return c.Status(500).SendString("Could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	listingID, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Cart.Remove(sid, listingID, c.FormValue("variation")); err != nil {
		return c.Status(500).SendString("Could not remove item")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}
