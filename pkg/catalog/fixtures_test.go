package catalog_test

import variants "github.com/goliatone/go-variants"

func hoodie() variants.Product {
	return variants.Product{
		ID:     "prod_hoodie",
		Title:  "Dog Hoodie",
		Handle: "dog-hoodie",
		Options: []variants.Option{
			{ID: "opt_color", Title: "Color", Values: []variants.Value{{ID: "val_pink", Label: "Pink"}, {ID: "val_black", Label: "Black"}}},
			{ID: "opt_size", Title: "Size", Values: []variants.Value{{ID: "val_mn", Label: "MN"}, {ID: "val_it", Label: "IT"}}},
		},
		Variants: []variants.Variant{
			{ID: "var_pink_mn", SKU: "MN_PINK", Options: variants.Selection{"opt_color": "val_pink", "opt_size": "val_mn"}, ManageInventory: true, InventoryQuantity: 2},
			{ID: "var_pink_it", SKU: "IT_PINK", Options: variants.Selection{"opt_color": "val_pink", "opt_size": "val_it"}, ManageInventory: true},
			{ID: "var_black_mn", SKU: "MN_BLACK", Options: variants.Selection{"opt_color": "val_black", "opt_size": "val_mn"}, ManageInventory: true, AllowBackorder: true},
			{ID: "var_black_it", SKU: "IT_BLACK", Options: variants.Selection{"opt_color": "val_black", "opt_size": "val_it"}, Metadata: map[string]string{"print": "paw"}},
		},
	}
}
