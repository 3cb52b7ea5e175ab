package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "", DisplayName(nil))

	single := []models.OrderItem{{FoodName: "Pad Thai"}}
	assert.Equal(t, "Pad Thai", DisplayName(single))

	multi := []models.OrderItem{{FoodName: "Pad Thai"}, {FoodName: "Khao Pad"}}
	assert.Equal(t, "Pad Thai และอื่นๆ", DisplayName(multi))
}
