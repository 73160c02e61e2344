package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
)

// ResourceRepository reads tenants, resources and their rate rules.
type ResourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Tenant(ctx context.Context, id string) (*domain.Tenant, error) {
	var (
		t        domain.Tenant
		timezone string
	)

	err := r.db.QueryRowContext(ctx, `SELECT id, name, timezone FROM tenants WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("tenant %s timezone %q: %w", id, timezone, err)
	}
	t.Location = loc

	return &t, nil
}

func (r *ResourceRepository) Resources(ctx context.Context, tenantID string, ids []domain.ResourceID) ([]domain.Resource, error) {
	query := `
	SELECT id, tenant_id, name, category, capacity
	FROM resources
	WHERE tenant_id = $1 AND id = ANY($2)
	ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, resourceArray(ids))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		var (
			res domain.Resource
			id  string
		)
		if err := rows.Scan(&id, &res.TenantID, &res.Name, &res.Category, &res.Capacity); err != nil {
			return nil, err
		}
		res.ID = domain.ResourceID(id)

		resources = append(resources, res)
	}

	return resources, rows.Err()
}

func (r *ResourceRepository) RateConfig(ctx context.Context, resourceID domain.ResourceID) ([]domain.RateRule, error) {
	query := `
	SELECT id, resource_id, name, tier, weekdays, valid_from, valid_to,
		pricing_kind, amount_cents, minimum_charge_cents, tiers
	FROM rate_rules
	WHERE resource_id = $1
	ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, string(resourceID))
	if err != nil {
		return nil, fmt.Errorf("query rate rules: %w", err)
	}

	defer rows.Close()

	var rules []domain.RateRule
	for rows.Next() {
		var (
			rule      domain.RateRule
			rid       string
			weekdays  []int64
			from, to  sql.NullTime
			kind      string
			amount    int64
			minimum   int64
			tiersJSON []byte
		)
		err := rows.Scan(&rule.ID, &rid, &rule.Name, &rule.Applies.Tier, pq.Array(&weekdays),
			&from, &to, &kind, &amount, &minimum, &tiersJSON)
		if err != nil {
			return nil, fmt.Errorf("scan rate rule: %w", err)
		}

		rule.ResourceID = domain.ResourceID(rid)
		for _, wd := range weekdays {
			rule.Applies.Weekdays = append(rule.Applies.Weekdays, time.Weekday(wd))
		}
		if from.Valid {
			d := domain.DateOf(from.Time)
			rule.Applies.From = &d
		}
		if to.Valid {
			d := domain.DateOf(to.Time)
			rule.Applies.To = &d
		}
		rule.Pricing = domain.Pricing{
			Kind:          domain.PricingKind(kind),
			Amount:        domain.Money(amount),
			MinimumCharge: domain.Money(minimum),
		}
		if len(tiersJSON) > 0 {
			if err := json.Unmarshal(tiersJSON, &rule.Pricing.Tiers); err != nil {
				return nil, fmt.Errorf("decode tiers of rule %s: %w", rule.ID, err)
			}
		}

		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

var (
	_ ports.Catalog          = (*ResourceRepository)(nil)
	_ ports.RateConfigSource = (*ResourceRepository)(nil)
)
