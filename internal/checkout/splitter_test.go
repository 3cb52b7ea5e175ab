package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
)

func lineForStore(storeID *uuid.UUID, sellerID uuid.UUID, name string) models.CartLine {
	return models.CartLine{
		ID:       uuid.New(),
		BuyerID:  uuid.New(),
		FoodID:   uuid.New(),
		StoreID:  storeID,
		SellerID: sellerID,
		FoodName: name,
		Quantity: 1,
	}
}

func TestSplitByStorePartitionsWithOrderPreserved(t *testing.T) {
	s1 := uuid.New()
	s2 := uuid.New()

	lines := []models.CartLine{
		lineForStore(&s1, uuid.New(), "A"),
		lineForStore(&s2, uuid.New(), "B"),
		lineForStore(&s1, uuid.New(), "C"),
		lineForStore(&s2, uuid.New(), "D"),
	}

	groups := SplitByStore(lines)
	require.Len(t, groups, 2)

	assert.Equal(t, s1, groups[0].Key)
	require.Len(t, groups[0].Lines, 2)
	assert.Equal(t, "A", groups[0].Lines[0].FoodName)
	assert.Equal(t, "C", groups[0].Lines[1].FoodName)

	assert.Equal(t, s2, groups[1].Key)
	require.Len(t, groups[1].Lines, 2)
	assert.Equal(t, "B", groups[1].Lines[0].FoodName)
	assert.Equal(t, "D", groups[1].Lines[1].FoodName)

	total := 0
	for _, g := range groups {
		total += len(g.Lines)
	}
	assert.Equal(t, len(lines), total, "every line lands in exactly one group")
}

func TestSplitByStoreFallsBackToSeller(t *testing.T) {
	seller := uuid.New()
	s1 := uuid.New()

	lines := []models.CartLine{
		lineForStore(nil, seller, "Legacy A"),
		lineForStore(&s1, uuid.New(), "Current"),
		lineForStore(nil, seller, "Legacy B"),
	}

	groups := SplitByStore(lines)
	require.Len(t, groups, 2)
	assert.Equal(t, seller, groups[0].Key)
	require.Len(t, groups[0].Lines, 2)
	assert.Equal(t, s1, groups[1].Key)
}

func TestSplitByStoreEmptyInput(t *testing.T) {
	assert.Empty(t, SplitByStore(nil))
	assert.Empty(t, SplitByStore([]models.CartLine{}))
}
