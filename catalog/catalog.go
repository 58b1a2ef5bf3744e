// Package catalog holds the static keyword to Amazon product table. Entries
// are immutable for the process lifetime; editing the table is the only way to
// change recommendations.
package catalog

import (
	"strings"

	"github.com/serisow/glowpress/pipeline_type"
)

var products = map[string][]pipeline_type.Product{
	"cleanser": {
		{Name: "CeraVe Hydrating Facial Cleanser", ASIN: "B07Z5BZCHB", Price: "$15.99"},
		{Name: "Cetaphil Gentle Skin Cleanser", ASIN: "B01N6E66RN", Price: "$13.49"},
	},
	"exfoliant": {
		{Name: "Paula's Choice 2% BHA Liquid Exfoliant", ASIN: "B00949CTQQ", Price: "$34.00"},
	},
	"bha": {
		{Name: "Paula's Choice 2% BHA Liquid Exfoliant", ASIN: "B00949CTQQ", Price: "$34.00"},
	},
	"niacinamide": {
		{Name: "The Ordinary Niacinamide 10% + Zinc 1%", ASIN: "B09NQ5L9V5", Price: "$6.50"},
	},
	"serum": {
		{Name: "The Ordinary Hyaluronic Acid 2% + B5", ASIN: "B01MYEZPC8", Price: "$8.90"},
	},
	"sunscreen": {
		{Name: "EltaMD UV Clear SPF 46", ASIN: "B002MSN3QQ", Price: "$41.00"},
	},
	"spf": {
		{Name: "EltaMD UV Clear SPF 46", ASIN: "B002MSN3QQ", Price: "$41.00"},
	},
	"moisturizer": {
		{Name: "CeraVe Daily Moisturizing Lotion", ASIN: "B000YJ2SLG", Price: "$12.99"},
	},
	"retinol": {
		{Name: "CeraVe Resurfacing Retinol Serum", ASIN: "B07Y355LFL", Price: "$19.99"},
	},
	"mask": {
		{Name: "Aztec Secret Indian Healing Clay", ASIN: "B01NCKZSLB", Price: "$14.45"},
	},
}

// defaults fill out a recommendation list when the topic matches too few
// catalog keywords.
var defaults = []pipeline_type.Product{
	{Name: "CeraVe Hydrating Facial Cleanser", ASIN: "B07Z5BZCHB", Price: "$15.99"},
	{Name: "The Ordinary Niacinamide 10% + Zinc 1%", ASIN: "B09NQ5L9V5", Price: "$6.50"},
	{Name: "EltaMD UV Clear SPF 46", ASIN: "B002MSN3QQ", Price: "$41.00"},
}

// ProductsFor returns up to max products matched against the topic, keyword
// matches first, padded from the default list. ASINs are deduplicated.
func ProductsFor(topic string, max int) []pipeline_type.Product {
	if max <= 0 {
		return nil
	}

	lower := strings.ToLower(topic)
	seen := make(map[string]bool)
	var picked []pipeline_type.Product

	for _, word := range strings.Fields(lower) {
		for _, p := range products[word] {
			if len(picked) >= max {
				return picked
			}
			if seen[p.ASIN] {
				continue
			}
			seen[p.ASIN] = true
			picked = append(picked, p)
		}
	}

	for _, p := range defaults {
		if len(picked) >= max {
			break
		}
		if seen[p.ASIN] {
			continue
		}
		seen[p.ASIN] = true
		picked = append(picked, p)
	}

	return picked
}
