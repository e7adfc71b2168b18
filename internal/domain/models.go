package domain

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Parent    string `db:"parent"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Listing is a sellable product record. VariationsJSON holds the raw
// variation document as uploaded by the seller; shapes are inconsistent
// across uploads and are normalized once by pricing.Normalize.
type Listing struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Description    string  `db:"description"`
	Category       string  `db:"category"`
	Subcategory    string  `db:"subcategory"`
	Brand          string  `db:"brand"`
	Price          float64 `db:"price"`
	VariationsJSON string  `db:"variations_json"`
	Stock          int     `db:"stock"`
	MinOrderQty    int     `db:"min_order_qty"`
	UploaderID     string  `db:"uploader_id"`
	Active         bool    `db:"active"`
	CreatedAt      string  `db:"created_at"`
	UpdatedAt      string  `db:"updated_at"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
	MinQty int    `json:"minQty,omitempty"`
}

type HeroSlide struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Subtitle string `db:"subtitle"`
	ImageURL string `db:"image_url"`
	LinkURL  string `db:"link_url"`
	Position int    `db:"position"`
	Active   bool   `db:"active"`
}

type Review struct {
	ID        string `db:"id"`
	ListingID string `db:"listing_id"`
	UserID    string `db:"user_id"`
	Rating    int    `db:"rating"`
	Comment   string `db:"comment"`
	CreatedAt string `db:"created_at"`
}

type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
