// Package app wires the client together: config, logger, local storage,
// session, HTTP pipeline, service wrappers and the cart/wishlist stores.
// Components receive their dependencies explicitly; nothing is a package
// global.
package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_client/config"
	"storefront_client/internal/api"
	"storefront_client/internal/cart"
	"storefront_client/internal/services"
	"storefront_client/internal/session"
	"storefront_client/internal/storage"
	"storefront_client/internal/wishlist"
)

type App struct {
	Cfg *config.Config
	Log *logrus.Logger

	Store   *storage.FileStore
	Session *session.Manager
	Client  *api.Client

	Auth       services.AuthService
	Products   services.ProductService
	Categories services.CategoryService
	Orders     services.OrderService
	Users      services.UserService
	Dashboard  services.DashboardService

	Cart     *cart.Store
	Wishlist *wishlist.Store
}

func New() (*App, error) {
	bootLogger := config.NewLogger("info")
	cfg := config.LoadConfig(bootLogger)
	logger := config.NewLogger(cfg.LogLevel)

	store, err := storage.NewFileStore(cfg.StateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	sess := session.NewManager(store, logger)
	client := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithTokenSource(sess),
		api.WithUnauthorizedHandler(sess.ForceLogout),
		api.WithLogger(logger),
	)

	return &App{
		Cfg:        cfg,
		Log:        logger,
		Store:      store,
		Session:    sess,
		Client:     client,
		Auth:       services.NewAuthService(client, sess, logger),
		Products:   services.NewProductService(client, logger),
		Categories: services.NewCategoryService(client, logger),
		Orders:     services.NewOrderService(client, logger),
		Users:      services.NewUserService(client, logger),
		Dashboard:  services.NewDashboardService(client, logger),
		Cart:       cart.NewStore(client, sess, store, logger),
		Wishlist:   wishlist.NewStore(store, logger),
	}, nil
}
