package dealer

import (
	"strings"
	"testing"

	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDealerAccount(t *testing.T) {
	t.Run("creates active account", func(t *testing.T) {
		account, err := NewDealerAccount("d-1001", "Northside Motors", EntitlementShowAll)
		require.NoError(t, err)

		assert.Equal(t, "D-1001", account.AccountNumber)
		assert.Equal(t, "Northside Motors", account.Name)
		assert.Equal(t, AccountStatusActive, account.Status)
		assert.Equal(t, EntitlementShowAll, account.Entitlement)
		assert.True(t, account.IsActive())
	})

	t.Run("trims the account number", func(t *testing.T) {
		account, err := NewDealerAccount("  D-1001  ", "Northside Motors", EntitlementShowAll)
		require.NoError(t, err)
		assert.Equal(t, "D-1001", account.AccountNumber)
	})

	t.Run("fails with empty account number", func(t *testing.T) {
		_, err := NewDealerAccount("   ", "Northside Motors", EntitlementShowAll)
		require.Error(t, err)
	})

	t.Run("fails with account number too long", func(t *testing.T) {
		_, err := NewDealerAccount(strings.Repeat("9", 21), "Northside Motors", EntitlementShowAll)
		require.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewDealerAccount("D-1001", "", EntitlementShowAll)
		require.Error(t, err)
	})

	t.Run("fails with unknown entitlement", func(t *testing.T) {
		_, err := NewDealerAccount("D-1001", "Northside Motors", Entitlement("EVERYTHING"))
		require.Error(t, err)
	})
}

func TestDealerAccountSetStatus(t *testing.T) {
	account, err := NewDealerAccount("D-1001", "Northside Motors", EntitlementShowAll)
	require.NoError(t, err)

	require.NoError(t, account.SetStatus(AccountStatusSuspended))
	assert.False(t, account.IsActive())

	require.Error(t, account.SetStatus(AccountStatus("CLOSED")))
	assert.Equal(t, AccountStatusSuspended, account.Status)
}

func TestEntitlementAllowsPartType(t *testing.T) {
	tests := []struct {
		entitlement Entitlement
		partType    catalog.PartType
		allowed     bool
	}{
		{EntitlementShowAll, catalog.PartTypeGenuine, true},
		{EntitlementShowAll, catalog.PartTypeAftermarket, true},
		{EntitlementShowAll, catalog.PartTypeBranded, true},
		{EntitlementGenuineOnly, catalog.PartTypeGenuine, true},
		{EntitlementGenuineOnly, catalog.PartTypeBranded, true},
		{EntitlementGenuineOnly, catalog.PartTypeAftermarket, false},
		{EntitlementAftermarketOnly, catalog.PartTypeAftermarket, true},
		{EntitlementAftermarketOnly, catalog.PartTypeBranded, true},
		{EntitlementAftermarketOnly, catalog.PartTypeGenuine, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.entitlement)+"/"+string(tt.partType), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.entitlement.AllowsPartType(tt.partType))
		})
	}
}

func fullAssignmentInputs() []AssignmentInput {
	return []AssignmentInput{
		{PartType: catalog.PartTypeGenuine, BandCode: catalog.Band1},
		{PartType: catalog.PartTypeAftermarket, BandCode: catalog.Band3},
		{PartType: catalog.PartTypeBranded, BandCode: catalog.Band2},
	}
}

func TestNewAssignmentSet(t *testing.T) {
	dealerID := uuid.New()

	t.Run("builds one row per part type", func(t *testing.T) {
		assignments, err := NewAssignmentSet(dealerID, fullAssignmentInputs())
		require.NoError(t, err)
		require.Len(t, assignments, 3)

		for _, a := range assignments {
			assert.Equal(t, dealerID, a.DealerAccountID)
			assert.NotEmpty(t, a.ID)
		}
	})

	t.Run("rejects a partial set", func(t *testing.T) {
		_, err := NewAssignmentSet(dealerID, fullAssignmentInputs()[:2])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Exactly 3")
	})

	t.Run("rejects an oversized set", func(t *testing.T) {
		inputs := append(fullAssignmentInputs(),
			AssignmentInput{PartType: catalog.PartTypeGenuine, BandCode: catalog.Band4})
		_, err := NewAssignmentSet(dealerID, inputs)
		require.Error(t, err)
	})

	t.Run("rejects a duplicate part type", func(t *testing.T) {
		inputs := fullAssignmentInputs()
		inputs[1].PartType = catalog.PartTypeGenuine
		_, err := NewAssignmentSet(dealerID, inputs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Duplicate assignment")
	})

	t.Run("rejects an unknown band code", func(t *testing.T) {
		inputs := fullAssignmentInputs()
		inputs[0].BandCode = catalog.BandCode("9")
		_, err := NewAssignmentSet(dealerID, inputs)
		require.Error(t, err)
	})

	t.Run("rejects an unknown part type", func(t *testing.T) {
		inputs := fullAssignmentInputs()
		inputs[0].PartType = catalog.PartType("OEM")
		_, err := NewAssignmentSet(dealerID, inputs)
		require.Error(t, err)
	})
}

func TestBandLookup(t *testing.T) {
	dealerID := uuid.New()

	t.Run("maps part type to band code", func(t *testing.T) {
		assignments, err := NewAssignmentSet(dealerID, fullAssignmentInputs())
		require.NoError(t, err)

		lookup, err := BandLookup(assignments)
		require.NoError(t, err)
		assert.Equal(t, catalog.Band1, lookup[catalog.PartTypeGenuine])
		assert.Equal(t, catalog.Band3, lookup[catalog.PartTypeAftermarket])
		assert.Equal(t, catalog.Band2, lookup[catalog.PartTypeBranded])
	})

	t.Run("fails on an incomplete set", func(t *testing.T) {
		assignments, err := NewAssignmentSet(dealerID, fullAssignmentInputs())
		require.NoError(t, err)

		_, err = BandLookup(assignments[:2])
		require.Error(t, err)
	})

	t.Run("fails on a duplicate part type", func(t *testing.T) {
		assignments, err := NewAssignmentSet(dealerID, fullAssignmentInputs())
		require.NoError(t, err)
		assignments[1].PartType = catalog.PartTypeGenuine

		_, err = BandLookup(assignments)
		require.Error(t, err)
	})
}
