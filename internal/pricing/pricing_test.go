package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/markodapap-sketch/odapap-sub001/internal/pricing"
)

func TestResolveMinPriceCarriesRetail(t *testing.T) {
	offers := pricing.Normalize(`[
	  {"name":"Carton","price":100,"retailPrice":150},
	  {"name":"Pack","price":80,"retailPrice":90}
	]`)
	if len(offers) != 2 {
		t.Fatalf("want 2 offers, got %d", len(offers))
	}
	q := pricing.Resolve(0, offers)
	if !q.Wholesale.Equal(dec(80)) {
		t.Fatalf("want wholesale 80, got %s", q.Wholesale)
	}
	if !q.Retail.Equal(dec(90)) {
		t.Fatalf("want retail 90, got %s", q.Retail)
	}
	if q.Margin != 11 {
		t.Fatalf("want margin 11, got %d", q.Margin)
	}
}

func TestResolveNoVariations(t *testing.T) {
	q := pricing.Resolve(500, nil)
	if !q.Wholesale.Equal(dec(500)) {
		t.Fatalf("want wholesale 500, got %s", q.Wholesale)
	}
	if !q.Retail.IsZero() {
		t.Fatalf("want no retail, got %s", q.Retail)
	}
	if q.Margin != 0 {
		t.Fatalf("want margin 0, got %d", q.Margin)
	}
}

func TestNormalizeAttributeShape(t *testing.T) {
	offers := pricing.Normalize(`[
	  {"name":"Color","attributes":[
	    {"value":"Red","price":40,"retail":55,"stock":3},
	    {"value":"Blue","price":45,"stock":2}
	  ]}
	]`)
	if len(offers) != 2 {
		t.Fatalf("want 2 offers, got %d", len(offers))
	}
	if offers[0].Label != "Red" || offers[0].Stock != 3 {
		t.Fatalf("bad first offer: %+v", offers[0])
	}
	if pricing.TotalStock(offers, 99) != 5 {
		t.Fatalf("want stock 5, got %d", pricing.TotalStock(offers, 99))
	}
}

func TestRetailAliasPrecedence(t *testing.T) {
	offers := pricing.Normalize(`[{"price":10,"initialPrice":30,"retailPrice":20}]`)
	if len(offers) != 1 || !offers[0].Retail.Equal(dec(20)) {
		t.Fatalf("retailPrice should win over initialPrice: %+v", offers)
	}
}

func TestRetailBelowWholesaleDiscarded(t *testing.T) {
	q := pricing.Resolve(0, pricing.Normalize(`[{"price":100,"retail":100}]`))
	if !q.Retail.IsZero() || q.Margin != 0 {
		t.Fatalf("retail <= wholesale must be discarded, got %+v", q)
	}
}

func TestNormalizeGarbage(t *testing.T) {
	if got := pricing.Normalize(`not json`); got != nil {
		t.Fatalf("want nil for malformed doc, got %+v", got)
	}
	if got := pricing.Normalize(`[{"name":"no price"}]`); got != nil {
		t.Fatalf("unpriced groups must be skipped, got %+v", got)
	}
}

func dec(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

func TestDecrementOfferStockDirectShape(t *testing.T) {
	raw := `[{"name":"Single pack","price":950,"stock":120},{"name":"Carton of 12","price":10800,"stock":15}]`
	doc, ok := pricing.DecrementOfferStock(raw, "Single pack", 20)
	if !ok {
		t.Fatal("deduction refused with 120 in stock")
	}
	offers := pricing.Normalize(doc)
	if offers[0].Stock != 100 {
		t.Fatalf("want Single pack stock 100, got %d", offers[0].Stock)
	}
	if offers[1].Stock != 15 {
		t.Fatalf("Carton stock touched: got %d", offers[1].Stock)
	}
}

func TestDecrementOfferStockAttributeShape(t *testing.T) {
	raw := `[{"name":"Color","attributes":[
	  {"value":"Silver","price":4200,"stock":8},
	  {"value":"Black","price":4000,"stock":12}
	]}]`
	doc, ok := pricing.DecrementOfferStock(raw, "Black", 5)
	if !ok {
		t.Fatal("deduction refused with 12 in stock")
	}
	offers := pricing.Normalize(doc)
	if offers[0].Stock != 8 || offers[1].Stock != 7 {
		t.Fatalf("want stocks 8/7, got %d/%d", offers[0].Stock, offers[1].Stock)
	}
}

func TestDecrementOfferStockInsufficientLeavesDocAlone(t *testing.T) {
	raw := `[{"name":"Retail pack","price":120,"stock":500}]`
	doc, ok := pricing.DecrementOfferStock(raw, "Retail pack", 501)
	if ok {
		t.Fatal("deduction of 501 accepted against 500 in stock")
	}
	if doc != raw {
		t.Fatalf("document rewritten on failed deduction: %s", doc)
	}
}

func TestDecrementOfferStockUnknownLabelSpansEntries(t *testing.T) {
	// A cart line may carry a label the seller has since renamed;
	// deduction then draws from whatever entries still hold stock.
	raw := `[{"name":"Old pack","price":100,"stock":3},{"name":"New pack","price":110,"stock":4}]`
	doc, ok := pricing.DecrementOfferStock(raw, "Renamed", 5)
	if !ok {
		t.Fatal("deduction refused with 7 in stock across entries")
	}
	offers := pricing.Normalize(doc)
	if pricing.TotalStock(offers, 0) != 2 {
		t.Fatalf("want 2 units left, got %d", pricing.TotalStock(offers, 0))
	}
}

func TestStockTracked(t *testing.T) {
	if pricing.StockTracked(pricing.Normalize(`[{"name":"Pack","price":10}]`)) {
		t.Fatal("offers without stock counts reported as tracked")
	}
	if !pricing.StockTracked(pricing.Normalize(`[{"name":"Pack","price":10,"stock":1}]`)) {
		t.Fatal("stocked offer not reported as tracked")
	}
}
