package checkout

import "github.com/saveplate/saveplate-backend/pkg/db/models"

// displayNameSuffix marks a multi-item order in the buyer's order list.
const displayNameSuffix = " และอื่นๆ"

// DisplayName derives the order's list label from its items: the first
// item's name, suffixed when the order holds more than one item.
func DisplayName(items []models.OrderItem) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) == 1 {
		return items[0].FoodName
	}
	return items[0].FoodName + displayNameSuffix
}
