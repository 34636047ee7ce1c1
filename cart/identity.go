package cart

import (
	"sort"
	"strconv"
	"strings"

	"ordrz-storefront/models"
)

// GenerateUniqueID derives the line-item key for a product and its selected options.
// The same logical selection always yields the same key regardless of click order:
// groups are sorted by id, checkbox ids are sorted, counter entries are filtered to
// count > 0 and sorted by item id.
//
// Example: product "101" with {"9": Single{"91"}, "12": Multiple{"121","120"}}
// yields "101_12:[120,121]|9:91".
func GenerateUniqueID(productID string, selections models.SelectionSet) string {
	if len(selections) == 0 {
		return productID
	}

	groupIDs := make([]string, 0, len(selections))
	for groupID := range selections {
		groupIDs = append(groupIDs, groupID)
	}
	sort.Strings(groupIDs)

	parts := make([]string, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		if rendered := renderSelection(groupID, selections[groupID]); rendered != "" {
			parts = append(parts, rendered)
		}
	}

	return productID + "_" + strings.Join(parts, "|")
}

func renderSelection(groupID string, sel models.Selection) string {
	switch v := sel.(type) {
	case models.Single:
		return groupID + ":" + v.ItemID
	case models.Multiple:
		ids := models.DistinctIDs(v.ItemIDs)
		sort.Strings(ids)
		return groupID + ":[" + strings.Join(ids, ",") + "]"
	case models.Counted:
		itemIDs := make([]string, 0, len(v.Counts))
		for itemID, qty := range v.Counts {
			if qty > 0 {
				itemIDs = append(itemIDs, itemID)
			}
		}
		sort.Strings(itemIDs)

		entries := make([]string, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			entries = append(entries, itemID+":"+strconv.Itoa(v.Counts[itemID]))
		}
		return groupID + ":{" + strings.Join(entries, ",") + "}"
	}
	return ""
}
