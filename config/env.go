package config

import (
	"fmt"
	"strconv"
	"strings"
)

type lookupFunc func(string) (string, bool)

// applyEnv overrides file values with BOOKPRINT_* variables. A .env file is
// loaded into the environment by the CLI before Load runs.
func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	cents := func(key string, dst *int64) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("BOOKPRINT_FORMAT", &c.Format)
	str("BOOKPRINT_LOG_LEVEL", &c.Logging.Level)
	str("BOOKPRINT_LOG_FORMAT", &c.Logging.Format)
	str("BOOKPRINT_LOG_FILE", &c.Logging.File)
	str("BOOKPRINT_BIND", &c.Server.Bind)
	str("BOOKPRINT_OUTPUT_DIR", &c.Output.Dir)
	str("BOOKPRINT_CURRENCY", &c.Pricing.Currency)
	if err := num("BOOKPRINT_MAX_UPLOAD_MB", &c.Server.MaxUploadMB); err != nil {
		return err
	}
	if err := cents("BOOKPRINT_BOOK_PRICE_CENTS", &c.Pricing.BookPriceCents); err != nil {
		return err
	}
	if err := cents("BOOKPRINT_PRINT_COST_CENTS", &c.Pricing.EstimatedPrintCostCents); err != nil {
		return err
	}
	if err := cents("BOOKPRINT_SHIPPING_CENTS", &c.Pricing.EstimatedShippingCents); err != nil {
		return err
	}
	return nil
}
