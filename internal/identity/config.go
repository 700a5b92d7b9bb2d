package identity

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LocaleZhCN is the only supported locale.
const LocaleZhCN = "zh_CN"

// DefaultCount is used when a config does not request a batch size.
const DefaultCount = 1

var validate = validator.New()

// Config controls one batch generation. Validate before use; a config
// that passed Validate never causes Generate or GenerateBatch to fail.
type Config struct {
	Locale        string   `json:"locale" validate:"required,eq=zh_CN"`
	Count         int      `json:"count" validate:"min=1,max=10000"`
	IncludeFields []string `json:"include_fields,omitempty"`
	ExcludeFields []string `json:"exclude_fields,omitempty"`
	Seed          *uint64  `json:"seed,omitempty"`
}

// Normalize fills defaults: empty locale becomes zh_CN (dashes are
// tolerated), zero count becomes DefaultCount.
func (c *Config) Normalize() {
	if c.Locale == "" {
		c.Locale = LocaleZhCN
	}
	c.Locale = strings.ReplaceAll(c.Locale, "-", "_")
	if c.Count == 0 {
		c.Count = DefaultCount
	}
}

// Validate rejects unsupported locales, out-of-range counts, and
// unknown field names. It normalizes first, so a zero-value Config
// validates as "one record, all fields".
func (c *Config) Validate() error {
	c.Normalize()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := checkFieldNames(c.IncludeFields); err != nil {
		return fmt.Errorf("include_fields: %w", err)
	}
	if err := checkFieldNames(c.ExcludeFields); err != nil {
		return fmt.Errorf("exclude_fields: %w", err)
	}

	return nil
}

func checkFieldNames(names []string) error {
	var unknown []string
	for _, n := range names {
		if !KnownField(n) {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown fields: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// EffectiveFields computes (include ∪ all-if-no-include) − exclude.
func (c Config) EffectiveFields() map[Field]bool {
	fields := make(map[Field]bool, len(allFields))

	if len(c.IncludeFields) > 0 {
		for _, n := range c.IncludeFields {
			fields[Field(n)] = true
		}
	} else {
		for _, f := range allFields {
			fields[f] = true
		}
	}

	for _, n := range c.ExcludeFields {
		delete(fields, Field(n))
	}

	return fields
}
