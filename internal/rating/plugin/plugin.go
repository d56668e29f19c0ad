// Package plugin holds the per-product-family rating logic. Each plugin
// owns eligibility, exposure normalization, rate key construction with its
// fallback order, and the auto-selected factor codes for the product types
// it claims. Everything downstream of the base rate is shared and lives in
// the engine package.
package plugin

import (
	"fmt"

	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/michelevens/insureflow/internal/rating/engine"
)

// Plugin is one product family's contribution to the pipeline.
type Plugin interface {
	// ProductTypes lists the types this plugin claims. Claims must be
	// unique across the registry.
	ProductTypes() []string

	// CheckEligibility validates the input against the family's rules.
	// A non-empty reason means the applicant is ineligible; the pipeline
	// stops there with a normal (not error) outcome.
	CheckEligibility(in *domain.RateInput) string

	// Exposure normalizes the input into the unit count the base rate is
	// priced per. A non-empty reason reports an exposure-stage
	// ineligibility, such as a disability benefit fully offset by
	// existing coverage.
	Exposure(in *domain.RateInput, params config.RatingParams) (float64, string)

	// RateKeys returns the lookup candidates in resolution order: the
	// exact key first, then each wildcard fallback.
	RateKeys(in *domain.RateInput) []string

	// AutoSelectors maps factor codes to derivation functions consulted
	// when the caller made no explicit selection for that code.
	AutoSelectors() map[string]engine.AutoSelector
}

// Registry maps product types to their plugins. Built once at startup.
type Registry struct {
	byType map[string]Plugin
}

// NewRegistry indexes the plugins by product type and fails on a duplicate
// claim so a misconfigured build cannot route one product to two plugins.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	byType := make(map[string]Plugin)
	for _, p := range plugins {
		for _, pt := range p.ProductTypes() {
			if _, taken := byType[pt]; taken {
				return nil, fmt.Errorf("product type %q claimed by two plugins", pt)
			}
			byType[pt] = p
		}
	}
	return &Registry{byType: byType}, nil
}

// Lookup returns the plugin for a product type.
func (r *Registry) Lookup(productType string) (Plugin, bool) {
	p, ok := r.byType[productType]
	return p, ok
}

// ProductTypes returns every registered type, for diagnostics.
func (r *Registry) ProductTypes() []string {
	out := make([]string, 0, len(r.byType))
	for pt := range r.byType {
		out = append(out, pt)
	}
	return out
}
