package cart

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"ordrz-storefront/models"
)

type remoteOptionItem struct {
	Name     string            `json:"name"`
	Price    models.FlexString `json:"price"`
	Quantity models.FlexString `json:"quantity"`
}

// TransformRemoteItems converts line items returned by the remote cart into cart line items.
// The remote cart does not return option ids, so option and item names stand in for them,
// and the unique id is menu_item_id + "_" + odetailid.
func TransformRemoteItems(remote []models.RemoteCartItem) []models.CartLineItem {
	items := make([]models.CartLineItem, 0, len(remote))
	for _, r := range remote {
		price := string(r.DPrice)
		if price == "" {
			price = "0"
		}
		discount := string(r.Discount)
		if discount == "" {
			discount = "0"
		}
		qty := r.DQty
		if qty <= 0 {
			qty = 1
		}

		items = append(items, models.CartLineItem{
			ID:           string(r.MenuItemID),
			Name:         r.DName,
			Price:        price,
			Quantity:     qty,
			Discount:     discount,
			CategoryID:   string(r.CategoryID),
			CategoryName: r.CategoryName,
			Options:      parseOptionSet(r.OptionSet),
			UniqueID:     string(r.MenuItemID) + "_" + string(r.OdetailID),
		})
	}
	return items
}

// parseOptionSet accepts the option set as a JSON object or as a string holding one.
// Anything unreadable yields no options.
func parseOptionSet(raw json.RawMessage) []models.OptionSelection {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return nil
		}
		trimmed = strings.TrimSpace(inner)
		if trimmed == "" {
			return nil
		}
	}

	var groups map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &groups); err != nil {
		return nil
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var options []models.OptionSelection
	for _, name := range names {
		var entries []remoteOptionItem
		// non-array groups are ignored
		if err := json.Unmarshal(groups[name], &entries); err != nil {
			continue
		}
		for _, e := range entries {
			price := string(e.Price)
			if price == "" {
				price = "0"
			}
			qty, err := strconv.Atoi(string(e.Quantity))
			if err != nil || qty <= 0 {
				qty = 1
			}
			options = append(options, models.OptionSelection{
				OptionID:   name,
				OptionName: name,
				ItemID:     e.Name,
				ItemName:   e.Name,
				ItemPrice:  price,
				Quantity:   qty,
			})
		}
	}
	return options
}
