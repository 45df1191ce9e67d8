package config

import (
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port     string
	DBDSN    string
	LogFile  string
	TaxRate  decimal.Decimal // percentage, e.g. 8.5
	PageSize int

	// Store identity printed on invoices
	StoreName    string
	StoreAddress string
	StorePhone   string
	StoreEmail   string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "grocerypos.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./grocerypos.log"
	}

	rate := decimal.RequireFromString("8.5")
	if s := os.Getenv("TAX_RATE"); s != "" {
		if r, err := decimal.NewFromString(s); err == nil && !r.IsNegative() {
			rate = r
		} else {
			log.Printf("[warn] ignoring bad TAX_RATE=%q", s)
		}
	}

	pageSize := 10
	if s := os.Getenv("ITEMS_PER_PAGE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			pageSize = n
		}
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		LogFile:      logFile,
		TaxRate:      rate,
		PageSize:     pageSize,
		StoreName:    envOr("STORE_NAME", "Grocery Store V2"),
		StoreAddress: envOr("STORE_ADDRESS", "123 Main Street, City, State 12345"),
		StorePhone:   envOr("STORE_PHONE", "(555) 123-4567"),
		StoreEmail:   envOr("STORE_EMAIL", "contact@grocerystore.com"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s TAX_RATE=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.TaxRate, cfg.LogFile)
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
