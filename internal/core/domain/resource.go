package domain

import "time"

type Tenant struct {
	ID       string
	Name     string
	Location *time.Location
}

// Resource is a bookable hall or room owned by a tenant.
type Resource struct {
	ID       ResourceID `json:"id"`
	TenantID string     `json:"tenant_id"`
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Capacity int        `json:"capacity"`
}
