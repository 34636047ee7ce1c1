package models

// OptionItem represents a single choosable sub-item inside an option group
type OptionItem struct {
	ID       string `json:"id"`
	CatID    string `json:"cat_id,omitempty"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Flag     string `json:"flag,omitempty"`
	Image    string `json:"image,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Discount string `json:"discount,omitempty"`
}

// ProductOption represents an option group on a product (e.g. "Size", "Toppings").
// Quantity is the maximum count, MinQuantity the minimum; both arrive as text from the catalog API.
type ProductOption struct {
	MenuItemID  string       `json:"menu_item_id,omitempty"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Flag        string       `json:"flag"`
	Quantity    string       `json:"quantity"`
	MinQuantity string       `json:"min_quantity"`
	Items       []OptionItem `json:"items"`
}

// FindItem returns the item with the given id, or nil when the catalog no longer has it
func (o *ProductOption) FindItem(itemID string) *OptionItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// Product represents a catalog product as returned by the products API
type Product struct {
	Name          string          `json:"name"`
	MenuItemID    string          `json:"menu_item_id"`
	MenuCatID     string          `json:"menu_cat_id"`
	Price         string          `json:"price"`
	Currency      string          `json:"currency,omitempty"`
	Desc          string          `json:"desc,omitempty"`
	Category      string          `json:"category"`
	Image         string          `json:"image"`
	LargeImage    string          `json:"large_image,omitempty"`
	Discount      string          `json:"discount,omitempty"`
	OriginalPrice string          `json:"originalPrice,omitempty"`
	Options       []ProductOption `json:"options"`
}

// FindOption returns the option group with the given id
func (p *Product) FindOption(optionID string) *ProductOption {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

// Category represents a product category in the catalog
type Category struct {
	CategoryID     string `json:"category_id"`
	CategoryName   string `json:"category_name"`
	Image          string `json:"image,omitempty"`
	ImageThumbnail string `json:"image_thumbnail,omitempty"`
	ItemCount      string `json:"item_count,omitempty"`
}

// CatalogResponse represents the products API payload
type CatalogResponse struct {
	Status     string     `json:"status"`
	Items      []Product  `json:"items"`
	Categories []Category `json:"categories"`
	Info       struct {
		Logo     string `json:"logo"`
		Currency string `json:"currency"`
	} `json:"info"`
}
