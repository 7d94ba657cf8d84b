package variants

// shirtProduct is a 2x2 product: Color (red, blue) x Size (s, m). Blue/M is
// out of stock, Red/M is on backorder, Blue/S does not track inventory.
func shirtProduct() Product {
	return Product{
		ID:     "prod_shirt",
		Title:  "Linen Shirt",
		Handle: "linen-shirt",
		Options: []Option{
			{ID: "opt_color", Title: "Color", Values: []Value{{ID: "red", Label: "Red"}, {ID: "blue", Label: "Blue"}}},
			{ID: "opt_size", Title: "Size", Values: []Value{{ID: "s", Label: "S"}, {ID: "m", Label: "M"}}},
		},
		Variants: []Variant{
			{ID: "var_red_s", Options: Selection{"opt_color": "red", "opt_size": "s"}, ManageInventory: true, InventoryQuantity: 4},
			{ID: "var_red_m", Options: Selection{"opt_color": "red", "opt_size": "m"}, ManageInventory: true, AllowBackorder: true},
			{ID: "var_blue_s", Options: Selection{"opt_color": "blue", "opt_size": "s"}},
			{ID: "var_blue_m", Options: Selection{"opt_color": "blue", "opt_size": "m"}, ManageInventory: true},
		},
	}
}

// giftCard has a single variant and no options.
func giftCard() Product {
	return Product{
		ID:       "prod_gift",
		Title:    "Gift Card",
		Variants: []Variant{{ID: "var_gift", Options: Selection{}}},
	}
}
