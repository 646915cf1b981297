package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/adapter/http/controller"
	"github.com/genglo/coop-kiosk/internal/adapter/http/middleware"
	"github.com/genglo/coop-kiosk/internal/adapter/http/router"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/memory"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/postgres"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/config"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/notify"
	"github.com/genglo/coop-kiosk/internal/scheduler"
	"github.com/genglo/coop-kiosk/internal/usecase/services"
)

type repositories struct {
	members  repo_interfaces.MemberRepository
	ledger   repo_interfaces.LedgerRepository
	intents  repo_interfaces.TransferIntentRepository
	sales    repo_interfaces.SaleRepository
	products repo_interfaces.ProductRepository
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	demo := flag.Bool("demo", false, "run with in-memory stores and seed data")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var repos repositories
	if *demo {
		store := memory.NewStore()
		if err := seedDemo(store); err != nil {
			log.Fatalf("seed demo data: %v", err)
		}
		repos = repositories{
			members:  memory.NewMemberRepository(store),
			ledger:   memory.NewLedgerRepository(store),
			intents:  memory.NewTransferIntentRepository(store),
			sales:    memory.NewSaleRepository(store),
			products: memory.NewProductRepository(store),
		}
		log.Println("running in demo mode with in-memory stores")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
			cancel()
			log.Fatalf("run migrations: %v", err)
		}

		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		cancel()
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		defer db.Close()

		repos = repositories{
			members:  postgres.NewMemberRepository(db),
			ledger:   postgres.NewLedgerRepository(db),
			intents:  postgres.NewTransferIntentRepository(db),
			sales:    postgres.NewSaleRepository(db),
			products: postgres.NewProductRepository(db),
		}
	}

	notifier := notify.NewSMTPNotifier(cfg.SMTP)

	authService := services.NewAuthService(repos.members, cfg.SessionTTL)
	transferService := services.NewTransferService(repos.members, repos.ledger, repos.intents, notifier, cfg.OTPTTL)
	balanceService := services.NewBalanceService(repos.members, repos.ledger, repos.sales, notifier, cfg.AdminEmail)
	refundService := services.NewRefundService(repos.members, repos.ledger, repos.sales, repos.products)
	reportService := services.NewReportService(repos.sales, notifier, cfg.AdminEmail)

	reportScheduler := scheduler.New(reportService, cfg.ReportHour)
	reportScheduler.Start()
	defer reportScheduler.Stop()

	mux := router.New(
		controller.NewHealthController(),
		controller.NewAuthController(authService),
		controller.NewAccountController(balanceService),
		controller.NewTransferController(transferService),
		controller.NewBalanceController(balanceService),
		controller.NewRefundController(refundService),
		middleware.SessionAuth(authService),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// seedDemo loads a small bench fixture: two members with balances, a staff
// and an admin account, one completed sale and its product.
func seedDemo(store *memory.Store) error {
	pinHash, err := services.HashPin("1234")
	if err != nil {
		return err
	}

	store.AddMember(domain.Member{
		CardID:    "9001",
		Username:  "admin",
		FirstName: "Alma",
		LastName:  "Reyes",
		Email:     "admin@example.test",
		Role:      domain.RoleAdmin,
		PinHash:   pinHash,
		IsActive:  true,
	})

	store.AddMember(domain.Member{
		CardID:    "9002",
		Username:  "staff",
		FirstName: "Bayani",
		LastName:  "Cruz",
		Email:     "staff@example.test",
		Role:      domain.RoleStaff,
		PinHash:   pinHash,
		IsActive:  true,
	})

	ana := store.AddMember(domain.Member{
		CardID:    "1001",
		FirstName: "Ana",
		LastName:  "Santos",
		Email:     "ana@example.test",
		Role:      domain.RoleMember,
		Balance:   decimal.NewFromInt(500),
		PinHash:   pinHash,
		IsActive:  true,
	})

	store.AddMember(domain.Member{
		CardID:    "1002",
		FirstName: "Ben",
		LastName:  "Lim",
		Email:     "ben@example.test",
		Role:      domain.RoleMember,
		Balance:   decimal.NewFromInt(50),
		PinHash:   pinHash,
		IsActive:  true,
	})

	productID := "d2b0a2f2-7c1a-4c4e-9a1f-3f6a1f0c9b10"
	store.AddProduct(productID, 20)

	store.AddSale(domain.Sale{
		Number:        "SALE-0001",
		MemberID:      &ana.ID,
		Subtotal:      decimal.NewFromInt(112),
		VatableSale:   decimal.NewFromInt(100),
		VATAmount:     decimal.NewFromInt(12),
		TotalAmount:   decimal.NewFromInt(112),
		PaymentMethod: "balance",
		Status:        domain.SaleStatusCompleted,
		Items: []domain.SaleItem{
			{
				ProductID:   &productID,
				ProductName: "Rice 1kg",
				Quantity:    2,
				UnitPrice:   decimal.NewFromInt(56),
				TotalPrice:  decimal.NewFromInt(112),
			},
		},
	})

	return nil
}
