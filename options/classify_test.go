package options

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ordrz-storefront/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		min, max string
		flag     string
		want     Type
		required bool
	}{
		{name: "one_of_one_is_radio", min: "1", max: "1", flag: "1", want: Radio, required: true},
		{name: "radio_flag_off_still_required_by_min", min: "1", max: "1", flag: "0", want: Radio, required: true},
		{name: "unlimited_optional_checkbox", min: "0", max: "0", flag: "0", want: Checkbox},
		{name: "single_optional_checkbox", min: "0", max: "1", flag: "0", want: Checkbox},
		{name: "flagged_checkbox", min: "0", max: "0", flag: "1", want: Checkbox, required: true},
		{name: "counter_with_cap_is_required", min: "0", max: "4", flag: "0", want: Counter, required: true},
		{name: "counter_with_min", min: "2", max: "5", flag: "1", want: Counter, required: true},
		{name: "unreadable_counts", min: "", max: "abc", flag: "", want: Checkbox},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opt := models.ProductOption{ID: "1", MinQuantity: tc.min, Quantity: tc.max, Flag: tc.flag}
			assert.Equal(t, tc.want, Classify(opt))
			assert.Equal(t, tc.required, IsRequired(opt))
		})
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 2, parseCount("2"))
	assert.Equal(t, 2, parseCount(" 2 "))
	assert.Equal(t, 2, parseCount("2.0"))
	assert.Equal(t, 12, parseCount("+12"))
	assert.Equal(t, -3, parseCount("-3"))
	assert.Equal(t, 0, parseCount(""))
	assert.Equal(t, 0, parseCount("many"))
}

func TestEffectiveMin(t *testing.T) {
	assert.Equal(t, 1, effectiveMin(0))
	assert.Equal(t, 1, effectiveMin(-1))
	assert.Equal(t, 3, effectiveMin(3))
}
