package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
	"github.com/markodapap-sketch/odapap-sub001/internal/log"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
	"github.com/markodapap-sketch/odapap-sub001/internal/validate"

	"github.com/google/uuid"
)

type ListingHandler struct {
	Catalog   *services.CatalogService
	Recommend *services.RecommendService
	Content   *repos.ContentRepo
}

// Detail renders one listing with its resolved quote, seller profile,
// and reviews, and records the view against the session's history.
func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	l, err := h.Catalog.GetListing(id)
	if err != nil || l.ID == "" || !l.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	card := h.Catalog.Decorate([]domain.Listing{l})[0]

	sellers, err := h.Catalog.SellerProfiles(c.UserContext(), []domain.Listing{l})
	if err == nil {
		if u, ok := sellers[l.UploaderID]; ok {
			card.SellerName = u.ShopName
			if card.SellerName == "" {
				card.SellerName = u.Name
			}
		}
	}

	reviews, err := h.Content.ReviewsForListing(id, 20)
	if err != nil {
		reviews = nil
	}

	sid := ensureSID(c)
	if err := h.Recommend.RecordView(sid, id); err != nil {
		// History feeds ranking only; never block the page on it.
		log.Error(c, "history.record.fail", err, map[string]any{"listing": id})
	}

	avail, _ := h.Catalog.CheckAvailability(id)
	return render(c, "listing", fiber.Map{
		"L":            card,
		"Reviews":      reviews,
		"Availability": avail,
	})
}

// Ping accumulates dwell time for a listing the session is looking at.
// POST /api/v1/view-ping  (listingId, seconds)
func (h *ListingHandler) Ping(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing listingId"})
	}
	secs, ok := validate.Seconds(c.FormValue("seconds"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid seconds"})
	}
	sid := ensureSID(c)
	if err := h.Recommend.AddDwellTime(sid, id, secs); err != nil {
		log.Error(c, "history.dwell.fail", err, map[string]any{"listing": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not record"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Review stores a review from a logged-in user.
func (h *ListingHandler) Review(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login?next=" + c.Path())
	}
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	rating, ok := validate.Rating(c.FormValue("rating"))
	if !ok {
		return c.Status(400).SendString("rating must be 1-5")
	}
	comment := c.FormValue("comment")
	if len(comment) > 1000 {
		comment = comment[:1000]
	}
	rev := domain.Review{
		ID:        uuid.NewString(),
		ListingID: id,
		UserID:    u.ID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := h.Content.AddReview(rev); err != nil {
		log.Error(c, "review.add.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not save your review")
	}
	log.Audit(c, "review.add", map[string]any{"listing": id, "rating": rating})
	return c.Redirect("/listing/" + id)
}
