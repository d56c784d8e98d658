package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/bookprint/logging"
	"github.com/ByLCY/bookprint/printspec"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, ok := printspec.LookupFormat(c.Format); !ok {
		return fmt.Errorf("format %q is not supported (use %s)", c.Format, printspec.HardcoverSquare.Name)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("server.max_upload_mb must be positive")
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return errors.New("server.shutdown_timeout_seconds must be positive")
	}
	return c.validatePricing()
}

func (c *Config) validatePricing() error {
	p := c.Pricing
	if p.BookPriceCents <= 0 {
		return errors.New("pricing.book_price_cents must be positive")
	}
	if p.EstimatedPrintCostCents < 0 || p.EstimatedShippingCents < 0 {
		return errors.New("pricing estimates cannot be negative")
	}
	if len(p.Currency) != 3 {
		return fmt.Errorf("pricing.currency must be an ISO 4217 code, got %q", p.Currency)
	}
	return nil
}
