package options

import (
	"strings"

	"ordrz-storefront/models"
)

// Type is how an option group is presented and validated
type Type string

const (
	Radio    Type = "radio"
	Checkbox Type = "checkbox"
	Counter  Type = "counter"
)

// Classify derives the group type from its (min_quantity, quantity) pair:
// 1/1 is a radio, a max above 1 is a counter, anything else is a checkbox
func Classify(opt models.ProductOption) Type {
	minQty, maxQty := Limits(opt)
	switch {
	case minQty == 1 && maxQty == 1:
		return Radio
	case maxQty > 1:
		return Counter
	default:
		return Checkbox
	}
}

// IsRequired reports whether the group must be satisfied before submission.
// Flag "1" marks a required group; counters with a max are always required.
func IsRequired(opt models.ProductOption) bool {
	if opt.Flag == "1" {
		return true
	}
	minQty, maxQty := Limits(opt)
	if Classify(opt) == Counter && maxQty > 0 {
		return true
	}
	return minQty > 0
}

// Limits returns the group's minimum and maximum counts; unreadable values count as 0
func Limits(opt models.ProductOption) (minQty, maxQty int) {
	return parseCount(opt.MinQuantity), parseCount(opt.Quantity)
}

// effectiveMin is the minimum a required counter must reach
func effectiveMin(minQty int) int {
	if minQty <= 0 {
		return 1
	}
	return minQty
}

// parseCount reads the leading integer of s, so "2", " 2 " and "2.0" all give 2
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	if negative {
		return -n
	}
	return n
}
