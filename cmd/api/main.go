package main

import (
	"fmt"
	"net/http"

	"github.com/gajihub/payroll-tax-backend-go/internal/config"
	"github.com/gajihub/payroll-tax-backend-go/internal/fixtures"
	appHTTP "github.com/gajihub/payroll-tax-backend-go/internal/handler/http"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/database"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/jwt"
	"github.com/gajihub/payroll-tax-backend-go/internal/repository/postgresql"
	authService "github.com/gajihub/payroll-tax-backend-go/internal/service/auth"
	taxService "github.com/gajihub/payroll-tax-backend-go/internal/service/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	settings := fixtures.DefaultTaxSettings()
	if cfg.Tax.SettingsPath != "" {
		settings, err = fixtures.LoadTaxSettings(cfg.Tax.SettingsPath)
		if err != nil {
			fmt.Println("Error loading tax settings:", err)
			return
		}
	} else if err := settings.Validate(); err != nil {
		fmt.Println("Error validating tax settings:", err)
		return
	}

	summaryRepo := postgresql.NewTaxSummaryRepository(db)
	periodRepo := postgresql.NewSalaryPeriodRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := authService.NewAuthService(cfg.Auth.ClientID, cfg.Auth.ClientSecretHash, JWTService)
	taxSvc := taxService.NewTaxService(summaryRepo, periodRepo, &settings)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	taxHandler := appHTTP.NewTaxHandler(taxSvc)
	router := appHTTP.NewRouter(JWTService, authHandler, taxHandler, cfg.App.Env)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
