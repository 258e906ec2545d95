package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"pickleshop/internal/config"
	"pickleshop/internal/handler"
	"pickleshop/internal/identity"
	"pickleshop/internal/infra/cache"
	"pickleshop/internal/infra/db"
	"pickleshop/internal/infra/mq"
	infraRepo "pickleshop/internal/infra/repository"
	"pickleshop/internal/middleware"
	repo "pickleshop/internal/repository"
	"pickleshop/internal/server"
	"pickleshop/internal/session"
	"pickleshop/internal/usecase"
	"pickleshop/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// pickleshop serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

// pickleshop routes
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the registered HTTP routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		gdb, err := db.OpenSQLite(":memory:")
		if err != nil {
			return err
		}
		a, err := build(cmd.Context(), cfg, log, gdb)
		if err != nil {
			return err
		}
		defer a.close()

		routes := a.echo.Routes()
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		for _, r := range routes {
			fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Path)
		}
		return w.Flush()
	},
}

type eventPublisher interface {
	usecase.EventPublisher
	Close() error
}

type application struct {
	echo     *echo.Echo
	registry *session.Registry
	closers  []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	a, err := build(ctx, cfg, log, gdb)
	if err != nil {
		return err
	}
	defer a.close()

	//使われなくなったセッションを掃除
	go a.registry.Run(ctx, time.Minute)

	return server.Start(ctx, a.echo, cfg.Addr(), log)
}

// build は依存を組み立てる
func build(ctx context.Context, cfg config.Config, log *slog.Logger, gdb *gorm.DB) (*application, error) {
	a := &application{}

	//Repository（GORM実装）
	users := infraRepo.NewUserGormRepository(gdb)
	orders := infraRepo.NewOrderGormRepository(gdb)
	audits := infraRepo.NewAuditLogGormRepository(gdb)
	var products repo.ProductRepository = infraRepo.NewProductGormRepository(gdb)

	//redisがあれば商品一覧キャッシュとredirectの状態を置く
	var redirects identity.RedirectStore = identity.NewMemoryRedirectStore()
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		products = cache.NewProductCache(products, rdb, cfg.CatalogCacheTTL, log)
		redirects = cache.NewRedirectStore(rdb)
	}

	var events eventPublisher = mq.NewLogPublisher(log)
	if cfg.AMQPURL != "" {
		p, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			a.close()
			return nil, err
		}
		events = p
	}
	a.closers = append(a.closers, func() { _ = events.Close() })

	//identity
	var providers []identity.FederatedProvider
	if cfg.GoogleClientID != "" {
		providers = append(providers, identity.NewGoogleProvider(
			cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.PublicURL+"/auth/callback/google"))
	}
	if cfg.FacebookClientID != "" {
		providers = append(providers, identity.NewFacebookProvider(
			cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.PublicURL+"/auth/callback/facebook"))
	}
	ident := identity.NewService(identity.Options{
		Credentials:           infraRepo.NewCredentialRepository(gdb),
		Tokens:                identity.NewTokenIssuer(cfg.JWTSecret),
		Redirects:             redirects,
		Providers:             providers,
		Logger:                log,
		PasswordSignInEnabled: cfg.PasswordSignInEnabled,
	})

	registry := session.NewRegistry(
		func(ctx context.Context, key, token string) session.Authenticator {
			return ident.NewAuth(ctx, key, token)
		},
		users, cfg.SessionIdleTTL,
		session.Options{BootstrapAdminEmail: cfg.BootstrapAdminEmail, Logger: log},
	)
	a.registry = registry
	a.closers = append(a.closers, registry.Close)

	//Usecase
	idGen := usecase.UUIDGenerator{}
	clock := usecase.SystemClock{}
	catalogUC := usecase.NewCatalogUsecase(products, log)
	authUC := usecase.NewAuthUsecase(validator.NewAuthValidator(), log)
	cartUC := usecase.NewCartUsecase(catalogUC)
	orderUC := usecase.NewOrderUsecase(orders, validator.NewCheckoutValidator(), events, idGen, log)
	adminProductUC := usecase.NewAdminProductUsecase(catalogUC, products, audits, validator.NewProductValidator(), idGen, clock, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(orders, audits, events, log)
	adminUserUC := usecase.NewAdminUserUsecase(users, audits, cfg.BootstrapAdminEmail, log)
	auditUC := usecase.NewAuditLogUsecase(audits)

	//Handler
	e := server.New(server.Options{FEURL: cfg.FEURL, Logger: log})
	server.RegisterRoutes(e,
		middleware.SessionConfig{Registry: registry, CookieSecure: cfg.IsProduction()},
		server.Handlers{
			Auth:         handler.NewAuthHandler(authUC, registry, ident, cfg.FEURL, log),
			Product:      handler.NewProductHandler(catalogUC),
			Cart:         handler.NewCartHandler(cartUC),
			Order:        handler.NewOrderHandler(orderUC),
			AdminProduct: handler.NewAdminProductHandler(adminProductUC),
			AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
			AdminUser:    handler.NewAdminUserHandler(adminUserUC, auditUC),
		},
	)
	a.echo = e
	return a, nil
}
