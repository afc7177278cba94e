// Command ema_bootstrap creates a company together with its first admin and
// prints an access token for that admin. The schema must already be migrated.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/middleware"
	"github.com/SscSPs/expense_management_app/internal/platform/config"
	"github.com/SscSPs/expense_management_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_management_app/internal/utils"
	"github.com/SscSPs/expense_management_app/pkg/database"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var req dto.BootstrapCompanyRequest
	flag.StringVar(&req.CompanyName, "company", "", "company name (required)")
	flag.StringVar(&req.Country, "country", "", "company country")
	flag.StringVar(&req.DefaultCurrency, "currency", "", "default ISO 4217 currency, falls back to DEFAULT_CURRENCY")
	flag.StringVar(&req.AdminName, "admin-name", "", "admin display name (required)")
	flag.StringVar(&req.AdminEmail, "admin-email", "", "admin email (required)")
	flag.StringVar(&req.AdminPassword, "admin-password", "", "admin password, at least 8 characters (required)")
	tokenTTL := flag.Duration("token-ttl", 0, "lifetime of the printed token, defaults to JWT_EXPIRY_DURATION")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = middleware.WithLogger(ctx, logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{Ping: true, MaxConns: 2})
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	svc := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool))

	company, admin, err := svc.Company.Bootstrap(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %s\n", apperrors.Message(err))
		flag.Usage()
		os.Exit(2)
	}

	ttl := cfg.JWTExpiryDuration
	if *tokenTTL > 0 {
		ttl = *tokenTTL
	}
	token, err := utils.GenerateJWT(admin.UserID, cfg.JWTSecret, ttl, cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign admin token", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("company_id=%s\nadmin_id=%s\ntoken=%s\n", company.CompanyID, admin.UserID, token)
}
