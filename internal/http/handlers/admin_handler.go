package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "github.com/markodapap-sketch/odapap-sub001/internal/log"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
	"github.com/markodapap-sketch/odapap-sub001/internal/validate"
)

type AdminHandler struct {
	OrderRepo *repos.OrderRepo
	Listings  *repos.ListingRepo
	Users     *repos.UserRepo
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "admin_dashboard", fiber.Map{})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status := c.FormValue("status")
	if id == "" || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.OrderRepo.UpdateStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/listings
func (h *AdminHandler) ListingsPage(c *fiber.Ctx) error {
	listings, err := h.Listings.All()
	if err != nil {
		applog.Error(c, "admin.listings.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings"})
	}
	return render(c, "admin_listings", fiber.Map{"Listings": listings})
}

// POST /admin/listings/stock
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.FormValue("listingId"))
	stock, err := strconv.Atoi(c.FormValue("stock"))
	if !okID || err != nil || stock < 0 {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Listings.UpdateStock(id, stock); err != nil {
		applog.Error(c, "admin.stock.save.fail", err, map[string]any{"listing": id, "stock": stock})
		return c.Status(400).SendString("could not save stock")
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"listing": id, "stock": stock})
	return c.Redirect("/admin/listings")
}

// POST /admin/listings/active
func (h *AdminHandler) SetListingActive(c *fiber.Ctx) error {
	id, okID := validate.ID(c.FormValue("listingId"))
	if !okID {
		return c.Status(400).SendString("invalid input")
	}
	active := c.FormValue("active") == "1"
	if err := h.Listings.SetActive(id, active); err != nil {
		applog.Error(c, "admin.active.save.fail", err, map[string]any{"listing": id})
		return c.Status(400).SendString("could not update listing")
	}
	applog.Audit(c, "admin.active.save", map[string]any{"listing": id, "active": active})
	return c.Redirect("/admin/listings")
}

// UsersPage lists users (excluding admin).
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	var users []struct {
		ID    string `db:"id"`
		Email string `db:"email"`
		Name  string `db:"name"`
		Role  string `db:"role"`
	}
	if err := h.Users.DB.Select(&users, `SELECT id,email,name,role FROM users WHERE role != 'ADMIN' ORDER BY email`); err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// DeleteUser deletes a user and related data, cancels their orders.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
