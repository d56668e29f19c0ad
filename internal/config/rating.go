package config

import (
	"errors"
	"log"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReplacementBand maps a monthly income ceiling to the income replacement
// ratio used when computing the maximum disability benefit.
type ReplacementBand struct {
	Ceiling float64 `mapstructure:"ceiling"`
	Ratio   float64 `mapstructure:"ratio"`
}

// ModalDefault is the fallback modal conversion applied when a rate table
// carries no row for the requested payment mode.
type ModalDefault struct {
	Factor  float64 `mapstructure:"factor"`
	FlatFee float64 `mapstructure:"flatFee"`
}

// RatingParams are the tunable constants of the rating pipeline. The
// defaults reproduce the carrier-filed values; overriding them in
// rating.yml changes premiums, so treat edits like rate-table edits.
type RatingParams struct {
	ReplacementBands        []ReplacementBand       `mapstructure:"replacementBands"`
	DefaultReplacementRatio float64                 `mapstructure:"defaultReplacementRatio"`
	DefaultDailyBenefit     float64                 `mapstructure:"defaultDailyBenefit"`
	ModalDefaults           map[string]ModalDefault `mapstructure:"modalDefaults"`
}

func DefaultRatingParams() RatingParams {
	return RatingParams{
		ReplacementBands: []ReplacementBand{
			{Ceiling: 5000, Ratio: 0.70},
			{Ceiling: 10000, Ratio: 0.65},
			{Ceiling: 15000, Ratio: 0.60},
			{Ceiling: 25000, Ratio: 0.55},
		},
		DefaultReplacementRatio: 0.60,
		DefaultDailyBenefit:     150,
		ModalDefaults: map[string]ModalDefault{
			"annual":     {Factor: 1.0},
			"semiannual": {Factor: 0.52},
			"quarterly":  {Factor: 0.265},
			"monthly":    {Factor: 0.0875},
		},
	}
}

// ReplacementRatioFor resolves the replacement ratio for a monthly income
// from the ascending band table. Incomes above every ceiling get 0.50; an
// empty table falls back to the default ratio.
func (p RatingParams) ReplacementRatioFor(monthlyIncome float64) float64 {
	for _, band := range p.ReplacementBands {
		if monthlyIncome <= band.Ceiling {
			return band.Ratio
		}
	}
	if n := len(p.ReplacementBands); n > 0 {
		return 0.50
	}
	return p.DefaultReplacementRatio
}

// RatingParamsHolder exposes the current rating parameters with hot reload.
type RatingParamsHolder struct {
	current atomic.Value // holds RatingParams
}

// NewRatingParamsHolder loads rating.yml when present and watches it for
// changes. Missing config files are not an error; defaults apply.
func NewRatingParamsHolder() (*RatingParamsHolder, error) {
	v := viper.New()

	v.SetConfigName("rating")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/insureflow/config")
	v.AddConfigPath("/etc/insureflow")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INSUREFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &RatingParamsHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultRatingParams())
		return holder, nil
	}

	cfg, err := unmarshalRatingParams(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalRatingParams(v)
		if err != nil {
			log.Printf("[rating-config] reload failed: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[rating-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Current returns the active rating parameters.
func (h *RatingParamsHolder) Current() RatingParams {
	if v, ok := h.current.Load().(RatingParams); ok {
		return v
	}
	return DefaultRatingParams()
}

func unmarshalRatingParams(v *viper.Viper) (RatingParams, error) {
	cfg := DefaultRatingParams()
	if err := v.UnmarshalKey("rating", &cfg); err != nil {
		return RatingParams{}, err
	}
	if err := validateRatingParams(cfg); err != nil {
		return RatingParams{}, err
	}
	return cfg, nil
}

func validateRatingParams(cfg RatingParams) error {
	if cfg.DefaultReplacementRatio <= 0 || cfg.DefaultReplacementRatio > 1 {
		return errors.New("defaultReplacementRatio must be in (0, 1]")
	}
	if cfg.DefaultDailyBenefit <= 0 {
		return errors.New("defaultDailyBenefit must be positive")
	}
	if !sort.SliceIsSorted(cfg.ReplacementBands, func(i, j int) bool {
		return cfg.ReplacementBands[i].Ceiling < cfg.ReplacementBands[j].Ceiling
	}) {
		return errors.New("replacementBands must be ascending by ceiling")
	}
	for _, band := range cfg.ReplacementBands {
		if band.Ratio <= 0 || band.Ratio > 1 {
			return errors.New("replacement band ratio must be in (0, 1]")
		}
	}
	for mode, modal := range cfg.ModalDefaults {
		if modal.Factor <= 0 {
			return errors.New("modal default factor must be positive for " + mode)
		}
	}
	return nil
}
