package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/markodapap-sketch/odapap-sub001/internal/cache"
	"github.com/markodapap-sketch/odapap-sub001/internal/config"
	"github.com/markodapap-sketch/odapap-sub001/internal/geocode"
	"github.com/markodapap-sketch/odapap-sub001/internal/recommend"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
	"github.com/markodapap-sketch/odapap-sub001/internal/search"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
)

type Deps struct {
	HomeHandler         *HomeHandler
	ListingHandler      *ListingHandler
	AvailabilityHandler *AvailabilityHandler
	SearchHandler       *SearchHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler
	WishlistHandler     *WishlistHandler
	LocationHandler     *LocationHandler
	AdminHandler        *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService,
	store *cache.Tiered, searcher search.Searcher, geo *geocode.Client) *Deps {

	listingRepo := repos.NewListingRepo(db)
	userRepo := repos.NewUserRepo(db)
	contentRepo := repos.NewContentRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	compareRepo := repos.NewCompareRepo(db)
	historyRepo := repos.NewHistoryRepo(db)

	catalogSvc := services.NewCatalogService(listingRepo, userRepo, contentRepo,
		store, cfg.ListingsTTL, cfg.UsersTTL, cfg.HeroTTL)
	cartSvc := services.NewCartService(cartRepo, listingRepo)
	orderSvc := services.NewOrderService(cartRepo, listingRepo, orderRepo)
	wishSvc := services.NewWishlistService(wishRepo, compareRepo)
	recSvc := services.NewRecommendService(catalogSvc, historyRepo, listingRepo, recommend.NewScorer())
	locSvc := services.NewLocationService(geo, userRepo)

	return &Deps{
		HomeHandler:         &HomeHandler{Catalog: catalogSvc, Recommend: recSvc},
		ListingHandler:      &ListingHandler{Catalog: catalogSvc, Recommend: recSvc, Content: contentRepo},
		AvailabilityHandler: &AvailabilityHandler{Catalog: catalogSvc},
		SearchHandler:       &SearchHandler{Searcher: searcher, Catalog: catalogSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		OrderHandler:        &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo, Auth: auth},
		WishlistHandler:     &WishlistHandler{Wish: wishSvc, Catalog: catalogSvc},
		LocationHandler:     &LocationHandler{Location: locSvc},
		AdminHandler:        &AdminHandler{OrderRepo: orderRepo, Listings: listingRepo, Users: userRepo},
	}
}
