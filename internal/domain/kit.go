package domain

import (
	"fmt"
	"strings"
	"time"
)

type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "AVAILABLE"
	UnitStatusInUse       UnitStatus = "IN_USE"
	UnitStatusMaintenance UnitStatus = "MAINTENANCE"
	UnitStatusDamaged     UnitStatus = "DAMAGED"
)

// NormalizeUnitStatus maps the status variants found in legacy catalog
// exports ("Active", "ACTIVE", "true", "1", ...) onto the closed
// UnitStatus enum. External data is always run through this before it
// reaches the engine.
func NormalizeUnitStatus(raw string) (UnitStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "AVAILABLE", "ACTIVE", "TRUE", "1", "":
		return UnitStatusAvailable, nil
	case "IN_USE", "INUSE", "IN USE", "RENTED", "BORROWED":
		return UnitStatusInUse, nil
	case "MAINTENANCE", "UNDER_MAINTENANCE", "REPAIRING":
		return UnitStatusMaintenance, nil
	case "DAMAGED", "BROKEN", "FALSE", "0", "INACTIVE":
		return UnitStatusDamaged, nil
	default:
		return "", fmt.Errorf("%w: unknown unit status %q", ErrValidation, raw)
	}
}

// Kit is a bundled set of components lent as a single unit. Its deposit
// is an admin-set value, not derived from component prices.
type Kit struct {
	ID                int32      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	DepositAmount     int64      `json:"deposit_amount"`
	QuantityTotal     int32      `json:"quantity_total"`
	QuantityAvailable int32      `json:"quantity_available"`
	Status            UnitStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// KitComponent is an individually tracked inventory unit. A component
// with KitID == nil is a global rentable unit; one bound to a kit is
// only lent as part of that kit's bundle.
type KitComponent struct {
	ID                int32      `json:"id"`
	KitID             *int32     `json:"kit_id,omitempty"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	PricePerUnit      int64      `json:"price_per_unit"`
	QuantityTotal     int32      `json:"quantity_total"`
	QuantityAvailable int32      `json:"quantity_available"`
	Status            UnitStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// Rentable reports whether the component can be requested on its own.
func (c *KitComponent) Rentable() bool {
	return c.KitID == nil
}
