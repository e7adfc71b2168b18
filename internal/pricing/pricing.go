package pricing

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// Seller uploads carry retail comparison prices under several legacy
// field names. First match wins.
var retailAliases = []string{"retailPrice", "retail", "retailPack", "originalPrice", "initialPrice"}

// Offer is the canonical shape of one priced variation option. Raw
// variation documents are normalized into this exactly once, at load
// time; nothing downstream touches the raw JSON again.
type Offer struct {
	Label    string          `json:"label"`
	Price    decimal.Decimal `json:"price"`
	Retail   decimal.Decimal `json:"retail"` // zero => absent
	Stock    int             `json:"stock"`
	PackSize int             `json:"packSize"`
}

// Quote is the representative price for a listing: the minimum offer
// price, the retail value co-located with it, and the derived margin.
type Quote struct {
	Wholesale decimal.Decimal `json:"wholesale"`
	Retail    decimal.Decimal `json:"retail"` // zero => absent
	Margin    int             `json:"margin"` // percent
}

// Normalize parses a raw variations document. Two shapes occur in the
// wild: a variation group carrying price fields directly, or a group
// wrapping a list of priced "attributes". Entries without a usable
// price are skipped.
func Normalize(raw string) []Offer {
	if raw == "" {
		return nil
	}
	var groups []map[string]any
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil
	}
	var out []Offer
	for _, g := range groups {
		if attrs, ok := g["attributes"].([]any); ok && len(attrs) > 0 {
			for _, a := range attrs {
				m, ok := a.(map[string]any)
				if !ok {
					continue
				}
				if o, ok := offerFrom(m); ok {
					out = append(out, o)
				}
			}
			continue
		}
		if o, ok := offerFrom(g); ok {
			out = append(out, o)
		}
	}
	return out
}

func offerFrom(m map[string]any) (Offer, bool) {
	price, ok := num(m, "price")
	if !ok || price <= 0 {
		return Offer{}, false
	}
	o := Offer{
		Label: str(m, "name", "value", "label"),
		Price: decimal.NewFromFloat(price),
	}
	for _, alias := range retailAliases {
		if r, ok := num(m, alias); ok && r > 0 {
			o.Retail = decimal.NewFromFloat(r)
			break
		}
	}
	if s, ok := num(m, "stock"); ok {
		o.Stock = int(s)
	}
	if p, ok := num(m, "packSize"); ok {
		o.PackSize = int(p)
	}
	return o, true
}

// Resolve walks the offers tracking the minimum price and the retail
// value stored alongside it, falling back to the listing's top-level
// price when no offer is priced. A retail value that is not strictly
// greater than the wholesale price is discarded.
func Resolve(basePrice float64, offers []Offer) Quote {
	var wholesale, retail decimal.Decimal
	found := false
	for _, o := range offers {
		if !found || o.Price.LessThan(wholesale) {
			wholesale = o.Price
			retail = o.Retail
			found = true
		}
	}
	if !found {
		wholesale = decimal.NewFromFloat(basePrice)
		retail = decimal.Zero
	}
	if !retail.GreaterThan(wholesale) {
		retail = decimal.Zero
	}
	return Quote{Wholesale: wholesale, Retail: retail, Margin: marginPct(wholesale, retail)}
}

// marginPct divides by retail, not wholesale: margin is the share of
// the resale value kept as profit.
func marginPct(wholesale, retail decimal.Decimal) int {
	if retail.IsZero() || !retail.GreaterThan(wholesale) {
		return 0
	}
	pct, _ := retail.Sub(wholesale).Div(retail).Mul(decimal.NewFromInt(100)).Float64()
	return int(math.Round(pct))
}

// TotalStock sums offer stock, falling back to the listing-level stock
// when no offer reports any.
func TotalStock(offers []Offer, fallback int) int {
	total := 0
	seen := false
	for _, o := range offers {
		if o.Stock > 0 {
			seen = true
		}
		total += o.Stock
	}
	if !seen {
		return fallback
	}
	return total
}

// StockTracked reports whether any offer carries its own stock count.
// When none do, the listing-level stock column is authoritative.
func StockTracked(offers []Offer) bool {
	for _, o := range offers {
		if o.Stock > 0 {
			return true
		}
	}
	return false
}

// DecrementOfferStock rewrites the raw variations document, deducting
// units from the entries matching label — or from any stocked entry
// when no label matches, since older carts may carry labels the seller
// has since renamed. Returns the updated document and whether enough
// stock existed; the document is untouched on failure.
func DecrementOfferStock(raw, label string, by int) (string, bool) {
	if by <= 0 {
		return raw, true
	}
	var groups []map[string]any
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return raw, false
	}
	var entries []map[string]any
	for _, g := range groups {
		if attrs, ok := g["attributes"].([]any); ok && len(attrs) > 0 {
			for _, a := range attrs {
				if m, ok := a.(map[string]any); ok {
					entries = append(entries, m)
				}
			}
			continue
		}
		entries = append(entries, g)
	}

	var matched []map[string]any
	if label != "" {
		for _, m := range entries {
			if str(m, "name", "value", "label") == label {
				matched = append(matched, m)
			}
		}
	}
	if len(matched) == 0 {
		matched = entries
	}

	avail := 0
	for _, m := range matched {
		if s, ok := num(m, "stock"); ok && s > 0 {
			avail += int(s)
		}
	}
	if avail < by {
		return raw, false
	}

	for _, m := range matched {
		if by == 0 {
			break
		}
		s, ok := num(m, "stock")
		if !ok || s <= 0 {
			continue
		}
		take := by
		if int(s) < take {
			take = int(s)
		}
		m["stock"] = int(s) - take
		by -= take
	}

	b, err := json.Marshal(groups)
	if err != nil {
		return raw, false
	}
	return string(b), true
}

func num(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
