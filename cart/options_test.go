package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordrz-storefront/models"
)

func testBurger() models.Product {
	return models.Product{
		MenuItemID: "101",
		MenuCatID:  "7",
		Name:       "Zinger Burger",
		Price:      "500",
		Category:   "Burgers",
		Image:      "https://cdn.example.com/zinger.png",
		Options: []models.ProductOption{
			{
				ID: "9", Name: "Size", Flag: "1", MinQuantity: "1", Quantity: "1",
				Items: []models.OptionItem{
					{ID: "90", Name: "Regular", Price: "0"},
					{ID: "91", Name: "Large", Price: "150"},
				},
			},
			{
				ID: "12", Name: "Toppings", Flag: "0", MinQuantity: "0", Quantity: "0",
				Items: []models.OptionItem{
					{ID: "120", Name: "Cheese", Price: "60"},
					{ID: "121", Name: "Jalapeno", Price: "40"},
				},
			},
			{
				ID: "30", Name: "Dips", Flag: "0", MinQuantity: "0", Quantity: "4",
				Items: []models.OptionItem{
					{ID: "300", Name: "Garlic Mayo", Price: "50"},
					{ID: "301", Name: "Chipotle", Price: "70"},
				},
			},
		},
	}
}

func TestProcessOptions(t *testing.T) {
	product := testBurger()

	t.Run("all_shapes_in_catalog_order", func(t *testing.T) {
		got := ProcessOptions(product, models.SelectionSet{
			"30": models.Counted{Counts: map[string]int{"301": 2, "300": 0}},
			"12": models.Multiple{ItemIDs: []string{"121", "120"}},
			"9":  models.Single{ItemID: "91"},
		})

		require.Len(t, got, 4)
		assert.Equal(t, models.OptionSelection{OptionID: "9", OptionName: "Size", ItemID: "91", ItemName: "Large", ItemPrice: "150"}, got[0])
		assert.Equal(t, "121", got[1].ItemID)
		assert.Equal(t, "120", got[2].ItemID)
		assert.Equal(t, models.OptionSelection{OptionID: "30", OptionName: "Dips", ItemID: "301", ItemName: "Chipotle", ItemPrice: "70", Quantity: 2}, got[3])
	})

	t.Run("unknown_ids_skipped", func(t *testing.T) {
		got := ProcessOptions(product, models.SelectionSet{
			"9":  models.Single{ItemID: "stale"},
			"12": models.Multiple{ItemIDs: []string{"120", "gone"}},
			"77": models.Single{ItemID: "x"},
		})

		require.Len(t, got, 1)
		assert.Equal(t, "120", got[0].ItemID)
	})

	t.Run("no_selections", func(t *testing.T) {
		assert.Nil(t, ProcessOptions(product, nil))
	})
}

func TestCalculateTotalPrice(t *testing.T) {
	options := []models.OptionSelection{
		{ItemPrice: "150"},
		{ItemPrice: "70", Quantity: 2},
		{ItemPrice: ""},
	}
	assert.Equal(t, "790.00", CalculateTotalPrice("500", options))
	assert.Equal(t, "12.50", CalculateTotalPrice("12.5", nil))
}

func TestProcessOptions_DuplicateCheckboxIDs(t *testing.T) {
	product := models.Product{
		MenuItemID: "301",
		Price:      "100",
		Options: []models.ProductOption{
			{ID: "g", Name: "Sides", Flag: "0", Quantity: "0", Items: []models.OptionItem{{ID: "a", Name: "Fries", Price: "10"}}},
		},
	}
	sel := models.SelectionSet{"g": models.Multiple{ItemIDs: []string{"a", "a"}}}

	options := ProcessOptions(product, sel)

	require.Len(t, options, 1)
	assert.Equal(t, "110.00", CalculateTotalPrice(product.Price, options))
	assert.Equal(t, "301_g:[a]", GenerateUniqueID(product.MenuItemID, sel))
}
