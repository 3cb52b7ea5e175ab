package checkout

import (
	"github.com/google/uuid"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
)

// Group is one store's slice of a buyer's cart, an order draft awaiting
// commit.
type Group struct {
	Key   uuid.UUID
	Lines []models.CartLine
}

// SplitByStore partitions cart lines into one group per selling store,
// keyed by store id with the seller's user id as a fallback for legacy lines.
// Groups come back in order of first appearance and each group preserves the
// relative order of its lines. Pure function; empty input yields no groups.
func SplitByStore(lines []models.CartLine) []Group {
	if len(lines) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(lines))
	groups := make([]Group, 0, len(lines))
	for _, line := range lines {
		key := line.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}
