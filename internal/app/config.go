package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete terminal configuration, loadable from
// environment variables (POS_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"127.0.0.1:8080" usage:"API listen address"`
	DataPath  string `default:"pos.db" usage:"path to the terminal database file" flag:"data-path"`
	PinPepper string `default:"" usage:"HMAC pepper for cashier PIN hashing (POS_PIN_PEPPER)" flag:"pin-pepper"`
	Seed      SeedConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// SeedConfig controls first-boot seeding of an empty database.
type SeedConfig struct {
	CashierID   string `default:"000001" usage:"cashier id created on first boot" flag:"seed-cashier-id"`
	CashierName string `default:"Cashier" usage:"cashier name created on first boot" flag:"seed-cashier-name"`
	CashierPIN  string `default:"000001" usage:"cashier PIN created on first boot" flag:"seed-cashier-pin"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers for the
// browser-based till UI.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"1s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"10s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "POS",
		Files:     []string{"config.yaml", "/etc/pos/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if port := os.Getenv("PORT"); port != "" && cfg.Addr == "127.0.0.1:8080" {
		cfg.Addr = "127.0.0.1:" + port
	}

	return &cfg, nil
}
