package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"ordrz-storefront/models"
	"ordrz-storefront/utils"
)

// ProcessOptions resolves a selection set against the product's option catalog.
// Groups are visited in catalog order. Ids that no longer resolve are skipped.
func ProcessOptions(product models.Product, selections models.SelectionSet) []models.OptionSelection {
	if len(product.Options) == 0 || len(selections) == 0 {
		return nil
	}

	var result []models.OptionSelection
	for i := range product.Options {
		option := &product.Options[i]
		sel, ok := selections[option.ID]
		if !ok {
			continue
		}

		switch v := sel.(type) {
		case models.Single:
			if item := option.FindItem(v.ItemID); item != nil {
				result = append(result, newOptionSelection(option, item, 0))
			}
		case models.Multiple:
			for _, itemID := range models.DistinctIDs(v.ItemIDs) {
				if item := option.FindItem(itemID); item != nil {
					result = append(result, newOptionSelection(option, item, 0))
				}
			}
		case models.Counted:
			// map order is random; keep the output stable
			itemIDs := make([]string, 0, len(v.Counts))
			for itemID := range v.Counts {
				itemIDs = append(itemIDs, itemID)
			}
			sort.Strings(itemIDs)

			for _, itemID := range itemIDs {
				qty := v.Counts[itemID]
				if qty <= 0 {
					continue
				}
				if item := option.FindItem(itemID); item != nil {
					result = append(result, newOptionSelection(option, item, qty))
				}
			}
		}
	}

	return result
}

func newOptionSelection(option *models.ProductOption, item *models.OptionItem, qty int) models.OptionSelection {
	return models.OptionSelection{
		OptionID:   option.ID,
		OptionName: option.Name,
		ItemID:     item.ID,
		ItemName:   item.Name,
		ItemPrice:  item.Price,
		Quantity:   qty,
	}
}

// CalculateTotalPrice returns base price plus every option price times its quantity,
// rendered with two decimals. It is computed once when the line item is created.
func CalculateTotalPrice(basePrice string, options []models.OptionSelection) string {
	total := utils.ParsePrice(basePrice)
	for _, opt := range options {
		total = total.Add(utils.ParsePrice(opt.ItemPrice).Mul(decimal.NewFromInt(int64(opt.EffectiveQuantity()))))
	}
	return utils.FormatPrice(total)
}
