package domain

import (
	"fmt"
	"strings"
	"time"
)

type PolicyType string

const (
	PolicyTypeDamaged PolicyType = "damaged"
	PolicyTypeLost    PolicyType = "lost"
	PolicyTypeLated   PolicyType = "lated"
)

// ParsePolicyType normalizes the policy type strings found in legacy
// admin exports.
func ParsePolicyType(raw string) (PolicyType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "damaged", "damage":
		return PolicyTypeDamaged, nil
	case "lost", "loss":
		return PolicyTypeLost, nil
	case "lated", "late":
		return PolicyTypeLated, nil
	default:
		return "", fmt.Errorf("%w: unknown policy type %q", ErrValidation, raw)
	}
}

// PenaltyPolicy is reference data maintained by administrators. Amount
// here is a nominal figure shown to inspectors; it never overrides the
// component-price valuation of a penalty line.
type PenaltyPolicy struct {
	ID         int32      `json:"id"`
	PolicyName string     `json:"policy_name"`
	Type       PolicyType `json:"type"`
	Amount     int64      `json:"amount"`
	IssuedDate time.Time  `json:"issued_date"`
	Resolved   bool       `json:"resolved"`
}

// Penalty is a fine raised against a returned request.
type Penalty struct {
	ID              int32           `json:"id"`
	BorrowRequestID int32           `json:"borrow_request_id"`
	AccountID       int32           `json:"account_id"`
	TotalAmount     int64           `json:"total_amount"`
	Resolved        bool            `json:"resolved"`
	TakeEffectDate  time.Time       `json:"take_effect_date"`
	Note            string          `json:"note"`
	Details         []PenaltyDetail `json:"details"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PenaltyDetail is one line of a penalty. PolicyID, KitComponentID and
// ImageURL are optional: ad hoc damage descriptions carry no policy,
// kit-bundle damage carries no tracked component, and evidence photos
// may be absent.
type PenaltyDetail struct {
	ID             int32   `json:"id"`
	PenaltyID      int32   `json:"penalty_id"`
	PolicyID       *int32  `json:"policy_id,omitempty"`
	Description    string  `json:"description"`
	Amount         int64   `json:"amount"`
	KitComponentID *int32  `json:"kit_component_id,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
}

// DamageLine is one entry of an inspector's damage assessment: a
// component (by name, optionally by tracked component id) reported in
// some condition at return time.
type DamageLine struct {
	ComponentName string  `json:"component_name"`
	ComponentID   *int32  `json:"component_id,omitempty"`
	Damaged       bool    `json:"damaged"`
	Quantity      int32   `json:"quantity"`
	UnitValue     int64   `json:"unit_value"`
	Description   string  `json:"description,omitempty"`
	PolicyID      *int32  `json:"policy_id,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
}
