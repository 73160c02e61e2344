package ratecard

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
	"go.uber.org/zap"
)

type tierEntry struct {
	UpToMinutes int     `mapstructure:"up_to_minutes"`
	PerHour     float64 `mapstructure:"per_hour"`
}

type pricingEntry struct {
	Kind          string      `mapstructure:"kind"`
	Amount        float64     `mapstructure:"amount"`
	MinimumCharge float64     `mapstructure:"minimum_charge"`
	Tiers         []tierEntry `mapstructure:"tiers"`
}

type ruleEntry struct {
	ID         string       `mapstructure:"id"`
	ResourceID string       `mapstructure:"resource_id"`
	Name       string       `mapstructure:"name"`
	Weekdays   []string     `mapstructure:"weekdays"`
	From       string       `mapstructure:"from"`
	To         string       `mapstructure:"to"`
	Tier       string       `mapstructure:"tier"`
	Pricing    pricingEntry `mapstructure:"pricing"`
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

type resourceEntry struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Category string `mapstructure:"category"`
	Capacity int    `mapstructure:"capacity"`
}

type tenantEntry struct {
	ID        string          `mapstructure:"id"`
	Name      string          `mapstructure:"name"`
	Timezone  string          `mapstructure:"timezone"`
	Resources []resourceEntry `mapstructure:"resources"`
}

// dateToString lets unquoted YAML dates, which the parser hands over as
// time.Time, land in string fields as YYYY-MM-DD.
func dateToString(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	t, ok := data.(time.Time)
	if !ok || to.Kind() != reflect.String {
		return data, nil
	}
	return t.Format("2006-01-02"), nil
}

var decodeHooks = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	dateToString,
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
))

// Source serves rate rules from a YAML or JSON rate card file.
type Source struct {
	v      *viper.Viper
	logger *zap.Logger

	mu    sync.RWMutex
	rules map[domain.ResourceID][]domain.RateRule
}

func Load(path string, logger *zap.Logger) (*Source, error) {
	v := viper.New()
	v.SetConfigFile(path)

	s := &Source{v: v, logger: logger}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Source) reload() error {
	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read rate card: %w", err)
	}

	var entries []ruleEntry
	if err := s.v.UnmarshalKey("rules", &entries, decodeHooks); err != nil {
		return fmt.Errorf("decode rate card: %w", err)
	}

	rules, err := buildRules(entries)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()

	s.logger.Info("rate card loaded",
		zap.String("file", s.v.ConfigFileUsed()),
		zap.Int("rules", len(entries)),
	)
	return nil
}

// Watch reloads the card whenever the file changes. A card that fails to
// parse leaves the previous rules in place.
func (s *Source) Watch() {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if err := s.reload(); err != nil {
			s.logger.Error("rate card reload failed", zap.String("file", e.Name), zap.Error(err))
		}
	})
	s.v.WatchConfig()
}

func (s *Source) RateConfig(_ context.Context, resourceID domain.ResourceID) ([]domain.RateRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := s.rules[resourceID]
	out := make([]domain.RateRule, len(rules))
	copy(out, rules)
	return out, nil
}

// Catalog returns the optional tenants section of the card, used to seed
// stores that have no catalog of their own.
func (s *Source) Catalog() ([]domain.Tenant, []domain.Resource, error) {
	var entries []tenantEntry
	if err := s.v.UnmarshalKey("tenants", &entries, decodeHooks); err != nil {
		return nil, nil, fmt.Errorf("decode tenants: %w", err)
	}

	var (
		tenants   []domain.Tenant
		resources []domain.Resource
	)
	for _, e := range entries {
		if e.ID == "" {
			return nil, nil, fmt.Errorf("tenant id is required")
		}
		tz := e.Timezone
		if tz == "" {
			tz = "UTC"
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, nil, fmt.Errorf("tenant %s: %w", e.ID, err)
		}
		tenants = append(tenants, domain.Tenant{ID: e.ID, Name: e.Name, Location: loc})

		for _, r := range e.Resources {
			resources = append(resources, domain.Resource{
				ID:       domain.ResourceID(r.ID),
				TenantID: e.ID,
				Name:     r.Name,
				Category: r.Category,
				Capacity: r.Capacity,
			})
		}
	}

	return tenants, resources, nil
}

func buildRules(entries []ruleEntry) (map[domain.ResourceID][]domain.RateRule, error) {
	out := make(map[domain.ResourceID][]domain.RateRule)
	seen := make(map[string]bool)

	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("rule %d: id is required", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("rule %s: duplicate id", e.ID)
		}
		seen[e.ID] = true
		if e.ResourceID == "" {
			return nil, fmt.Errorf("rule %s: resource_id is required", e.ID)
		}

		rule := domain.RateRule{
			ID:         e.ID,
			ResourceID: domain.ResourceID(e.ResourceID),
			Name:       e.Name,
			Applies:    domain.Applicability{Tier: e.Tier},
			Pricing: domain.Pricing{
				Kind:          domain.PricingKind(strings.ToLower(e.Pricing.Kind)),
				Amount:        domain.MoneyFromFloat(e.Pricing.Amount),
				MinimumCharge: domain.MoneyFromFloat(e.Pricing.MinimumCharge),
			},
		}

		for _, name := range e.Weekdays {
			wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return nil, fmt.Errorf("rule %s: unknown weekday %q", e.ID, name)
			}
			rule.Applies.Weekdays = append(rule.Applies.Weekdays, wd)
		}

		if e.From != "" {
			d, err := domain.ParseDate(e.From)
			if err != nil {
				return nil, fmt.Errorf("rule %s: from: %w", e.ID, err)
			}
			rule.Applies.From = &d
		}
		if e.To != "" {
			d, err := domain.ParseDate(e.To)
			if err != nil {
				return nil, fmt.Errorf("rule %s: to: %w", e.ID, err)
			}
			rule.Applies.To = &d
		}
		if rule.Applies.From != nil && rule.Applies.To != nil && rule.Applies.To.Before(*rule.Applies.From) {
			return nil, fmt.Errorf("rule %s: date range ends before it starts", e.ID)
		}

		if !rule.Pricing.Kind.Valid() {
			return nil, fmt.Errorf("rule %s: unknown pricing kind %q", e.ID, e.Pricing.Kind)
		}
		for _, t := range e.Pricing.Tiers {
			rule.Pricing.Tiers = append(rule.Pricing.Tiers, domain.Tier{
				UpToMinutes: t.UpToMinutes,
				PerHour:     domain.MoneyFromFloat(t.PerHour),
			})
		}
		if rule.Pricing.Kind == domain.PricingTiered && len(rule.Pricing.Tiers) == 0 {
			return nil, fmt.Errorf("rule %s: tiered pricing needs at least one tier", e.ID)
		}

		out[rule.ResourceID] = append(out[rule.ResourceID], rule)
	}

	return out, nil
}

var _ ports.RateConfigSource = (*Source)(nil)
