package syncing

import (
	"sort"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/feed"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
)

// MissingSKUs returns the feed items whose SKU is not an option label yet,
// sorted by SKU.
func MissingSKUs(f *feed.Feed, existing types.OptionSet) []types.FeedItem {
	missing := make([]types.FeedItem, 0)
	for _, item := range f.Items {
		if !existing.Has(item.SKU) {
			missing = append(missing, item)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		return missing[i].SKU < missing[j].SKU
	})
	return missing
}
