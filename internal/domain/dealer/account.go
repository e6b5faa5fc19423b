package dealer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountStatus represents the trading status of a dealer account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// IsValid checks if the status is valid
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusSuspended:
		return true
	}
	return false
}

// Entitlement restricts which part types a dealer may be shown at all.
// It is a visibility rule applied before pricing, not a pricing rule.
type Entitlement string

const (
	EntitlementGenuineOnly     Entitlement = "GENUINE_ONLY"
	EntitlementAftermarketOnly Entitlement = "AFTERMARKET_ONLY"
	EntitlementShowAll         Entitlement = "SHOW_ALL"
)

// IsValid checks if the entitlement is valid
func (e Entitlement) IsValid() bool {
	switch e {
	case EntitlementGenuineOnly, EntitlementAftermarketOnly, EntitlementShowAll:
		return true
	}
	return false
}

// AllowsPartType reports whether products of the given part type may be
// shown or sold to a dealer with this entitlement
func (e Entitlement) AllowsPartType(t catalog.PartType) bool {
	switch e {
	case EntitlementGenuineOnly:
		return t == catalog.PartTypeGenuine || t == catalog.PartTypeBranded
	case EntitlementAftermarketOnly:
		return t == catalog.PartTypeAftermarket || t == catalog.PartTypeBranded
	default:
		return true
	}
}

// DealerAccount represents one trading dealer.
// It owns exactly three band assignments, one per part type.
type DealerAccount struct {
	shared.BaseAggregateRoot
	AccountNumber string        `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name          string        `gorm:"type:varchar(200);not null"`
	Status        AccountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Entitlement   Entitlement   `gorm:"type:varchar(20);not null;default:'SHOW_ALL'"`
}

// TableName returns the table name for GORM
func (DealerAccount) TableName() string {
	return "dealer_accounts"
}

// NewDealerAccount creates a new dealer account
func NewDealerAccount(accountNumber, name string, entitlement Entitlement) (*DealerAccount, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account number cannot be empty")
	}
	if len(accountNumber) > 20 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account number cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Dealer name cannot be empty")
	}
	if !entitlement.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITLEMENT", fmt.Sprintf("Invalid entitlement: %s", entitlement))
	}

	return &DealerAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountNumber:     strings.ToUpper(accountNumber),
		Name:              name,
		Status:            AccountStatusActive,
		Entitlement:       entitlement,
	}, nil
}

// SetStatus changes the trading status
func (a *DealerAccount) SetStatus(status AccountStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid account status: %s", status))
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetEntitlement changes the visibility entitlement
func (a *DealerAccount) SetEntitlement(entitlement Entitlement) error {
	if !entitlement.IsValid() {
		return shared.NewDomainError("INVALID_ENTITLEMENT", fmt.Sprintf("Invalid entitlement: %s", entitlement))
	}
	a.Entitlement = entitlement
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// IsActive returns true if the account may trade
func (a *DealerAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

// BandAssignment is one dealer's band choice for one part type.
// Every dealer has exactly one row per part type, three in total.
type BandAssignment struct {
	shared.BaseEntity
	DealerAccountID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_dealer_type,priority:1"`
	PartType        catalog.PartType `gorm:"type:varchar(20);not null;uniqueIndex:idx_assignment_dealer_type,priority:2"`
	BandCode        catalog.BandCode `gorm:"type:varchar(2);not null"`
}

// TableName returns the table name for GORM
func (BandAssignment) TableName() string {
	return "dealer_band_assignments"
}

// AssignmentInput is one {partType, bandCode} pair as submitted by admin tooling
type AssignmentInput struct {
	PartType catalog.PartType `json:"part_type"`
	BandCode catalog.BandCode `json:"band_code"`
}

// NewAssignmentSet validates an input set and builds the three assignment rows.
// The set must contain exactly one entry per part type and each band code must
// be one of the four valid codes. Anything else is rejected whole.
func NewAssignmentSet(dealerAccountID uuid.UUID, inputs []AssignmentInput) ([]BandAssignment, error) {
	if len(inputs) != len(catalog.AllPartTypes()) {
		return nil, shared.NewDomainError("INVALID_ASSIGNMENT_SET",
			fmt.Sprintf("Exactly %d band assignments are required, got %d", len(catalog.AllPartTypes()), len(inputs)))
	}

	seen := make(map[catalog.PartType]bool, len(inputs))
	assignments := make([]BandAssignment, 0, len(inputs))
	for _, in := range inputs {
		if !in.PartType.IsValid() {
			return nil, shared.NewDomainError("INVALID_PART_TYPE", fmt.Sprintf("Invalid part type: %s", in.PartType))
		}
		if !in.BandCode.IsValid() {
			return nil, shared.NewDomainError("INVALID_BAND", fmt.Sprintf("Invalid band code: %s", in.BandCode))
		}
		if seen[in.PartType] {
			return nil, shared.NewDomainError("INVALID_ASSIGNMENT_SET",
				fmt.Sprintf("Duplicate assignment for part type %s", in.PartType))
		}
		seen[in.PartType] = true

		assignments = append(assignments, BandAssignment{
			BaseEntity:      shared.NewBaseEntity(),
			DealerAccountID: dealerAccountID,
			PartType:        in.PartType,
			BandCode:        in.BandCode,
		})
	}

	return assignments, nil
}

// BandLookup builds a partType -> bandCode map from a dealer's assignments.
// Returns an error when the set does not hold exactly one row per part type.
func BandLookup(assignments []BandAssignment) (map[catalog.PartType]catalog.BandCode, error) {
	lookup := make(map[catalog.PartType]catalog.BandCode, len(assignments))
	for _, a := range assignments {
		if _, dup := lookup[a.PartType]; dup {
			return nil, shared.ErrInvariantViolation
		}
		lookup[a.PartType] = a.BandCode
	}
	if len(lookup) != len(catalog.AllPartTypes()) {
		return nil, shared.ErrInvariantViolation
	}
	return lookup, nil
}
