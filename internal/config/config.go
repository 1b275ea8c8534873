package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Invoicer"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"invoicer"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
	}

	Mail struct {
		ResendAPIKey string `envconfig:"RESEND_API_KEY"`
		FromAddress  string `envconfig:"MAIL_FROM_ADDRESS" default:"invoices@meetragreen.in"`
		FromName     string `envconfig:"MAIL_FROM_NAME" default:"Meetra Green Energy"`
	}

	Seller struct {
		Name          string   `envconfig:"SELLER_NAME" default:"MEETRA GREEN ENERGY"`
		Address       []string `envconfig:"SELLER_ADDRESS" default:"Shop No.7 Raiyaraj Complex Amar Nagar Road,Jetpur Navagadh Rajkot - 360370 Gujarat"`
		GSTIN         string   `envconfig:"SELLER_GSTIN" default:"24BLAPH1265E1ZP"`
		Contact       string   `envconfig:"SELLER_CONTACT" default:"+91 7359227562"`
		Email         string   `envconfig:"SELLER_EMAIL" default:"meetragreen@gmail.com"`
		PlaceOfSupply string   `envconfig:"SELLER_PLACE_OF_SUPPLY" default:"Gujarat (24)"`
		Jurisdiction  string   `envconfig:"SELLER_JURISDICTION" default:"Jetpur"`
	}

	Bank struct {
		Name      string `envconfig:"BANK_NAME" default:"Bank Of Baroda"`
		IFSC      string `envconfig:"BANK_IFSC" default:"BARB0VJJETP"`
		AccountNo string `envconfig:"BANK_ACCOUNT_NO" default:"80400200003267"`
		Branch    string `envconfig:"BANK_BRANCH" default:"STAND CHOWK,JETPUR BRANCH"`
	}

	Assets struct {
		LogoPath  string `envconfig:"ASSET_LOGO_PATH"`
		StampPath string `envconfig:"ASSET_STAMP_PATH"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// BankDetails returns the configured payment details printed on invoices.
func (c *Config) BankDetails() invoice.BankDetails {
	return invoice.BankDetails{
		BankName:  c.Bank.Name,
		IFSC:      c.Bank.IFSC,
		AccountNo: c.Bank.AccountNo,
		Branch:    c.Bank.Branch,
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
