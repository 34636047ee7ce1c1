package options

import (
	"errors"
	"fmt"

	"ordrz-storefront/models"
)

var (
	// ErrInvalidSelection is matched by every *InvalidSelectionError
	ErrInvalidSelection = errors.New("invalid option selection")
	// ErrSelectionLimit is returned when an addition would exceed the group's maximum
	ErrSelectionLimit = errors.New("selection limit reached")
	// ErrBelowMinimum is returned when a decrement would take a required group under its minimum
	ErrBelowMinimum = errors.New("selection would fall below the minimum")
	// ErrUnknownGroup is returned for a group id the product does not have
	ErrUnknownGroup = errors.New("unknown option group")
	// ErrUnknownItem is returned for an item id the group does not have
	ErrUnknownItem = errors.New("unknown option item")
	// ErrTypeMismatch is returned when a selection does not fit the group's type
	ErrTypeMismatch = errors.New("selection does not match option type")
)

// InvalidSelectionError names the first group that blocks submission
type InvalidSelectionError struct {
	GroupID string
	Message string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("option group %s: %s", e.GroupID, e.Message)
}

// Is makes errors.Is(err, ErrInvalidSelection) hold
func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// InitialValidation is the state before any interaction: required groups are invalid
// with an error status, optional groups valid with an info status
func InitialValidation(groups []models.ProductOption) map[string]models.ValidationEntry {
	validation := make(map[string]models.ValidationEntry, len(groups))
	for _, g := range groups {
		if IsRequired(g) {
			minQty, _ := Limits(g)
			validation[g.ID] = models.ValidationEntry{
				IsValid: false,
				Message: fmt.Sprintf("Please select at least %d option(s)", effectiveMin(minQty)),
				Status:  models.StatusError,
			}
			continue
		}
		validation[g.ID] = models.ValidationEntry{
			IsValid: true,
			Message: "This selection is optional",
			Status:  models.StatusInfo,
		}
	}
	return validation
}

// ComputeValidation evaluates every group against the selections.
// Only item ids present in the catalog are counted. Interacted is carried over from prev.
func ComputeValidation(groups []models.ProductOption, selections models.SelectionSet, prev map[string]models.ValidationEntry) map[string]models.ValidationEntry {
	validation := make(map[string]models.ValidationEntry, len(groups))
	for i := range groups {
		entry := evaluate(&groups[i], selections[groups[i].ID])
		entry.Interacted = prev[groups[i].ID].Interacted
		validation[groups[i].ID] = entry
	}
	return validation
}

func evaluate(g *models.ProductOption, sel models.Selection) models.ValidationEntry {
	required := IsRequired(*g)
	minQty, maxQty := Limits(*g)

	idle := models.ValidationEntry{IsValid: true, Message: "This selection is optional", Status: models.StatusInfo}
	if required {
		idle = models.ValidationEntry{IsValid: true, Message: "Selection required", Status: models.StatusWarning}
	}

	switch Classify(*g) {
	case Radio:
		var chosen *models.OptionItem
		if single, ok := sel.(models.Single); ok {
			chosen = g.FindItem(single.ItemID)
		}
		switch {
		case chosen != nil:
			return models.ValidationEntry{IsValid: true, Message: "Selected: " + chosen.Name, Status: models.StatusSuccess}
		case required:
			return models.ValidationEntry{IsValid: false, Message: "Please select an option", Status: models.StatusError}
		default:
			return idle
		}

	case Checkbox:
		count := 0
		if multiple, ok := sel.(models.Multiple); ok {
			for _, id := range models.DistinctIDs(multiple.ItemIDs) {
				if g.FindItem(id) != nil {
					count++
				}
			}
		}
		switch {
		case required && count < minQty:
			message := fmt.Sprintf("Please select %d more option(s)", minQty-count)
			if count == 0 {
				message = fmt.Sprintf("Please select at least %d option(s)", minQty)
			}
			return models.ValidationEntry{IsValid: false, Message: message, Status: models.StatusError}
		case maxQty > 0 && count > maxQty:
			return models.ValidationEntry{IsValid: false, Message: fmt.Sprintf("Maximum %d selections allowed", maxQty), Status: models.StatusError}
		case count > 0:
			return models.ValidationEntry{IsValid: true, Message: fmt.Sprintf("%d option(s) selected", count), Status: models.StatusSuccess}
		default:
			return idle
		}

	default:
		total := 0
		if counted, ok := sel.(models.Counted); ok {
			for id, qty := range counted.Counts {
				if qty > 0 && g.FindItem(id) != nil {
					total += qty
				}
			}
		}
		need := effectiveMin(minQty)
		switch {
		case required && total < need:
			message := fmt.Sprintf("Please select %d more item(s)", need-total)
			if total == 0 {
				message = fmt.Sprintf("Please select at least %d item(s)", need)
			}
			return models.ValidationEntry{IsValid: false, Message: message, Status: models.StatusError}
		case maxQty > 0 && total > maxQty:
			return models.ValidationEntry{IsValid: false, Message: fmt.Sprintf("Maximum %d items allowed", maxQty), Status: models.StatusError}
		case total > 0:
			return models.ValidationEntry{IsValid: true, Message: fmt.Sprintf("%d item(s) selected", total), Status: models.StatusSuccess}
		default:
			return idle
		}
	}
}

// IsFormValid holds when every required group is valid
func IsFormValid(groups []models.ProductOption, validation map[string]models.ValidationEntry) bool {
	return FirstInvalid(groups, validation) == ""
}

// FirstInvalid returns the first required group, in catalog order, that is not valid
func FirstInvalid(groups []models.ProductOption, validation map[string]models.ValidationEntry) string {
	for _, g := range groups {
		entry, ok := validation[g.ID]
		if IsRequired(g) && (!ok || !entry.IsValid) {
			return g.ID
		}
	}
	return ""
}

// CheckShapes verifies that every selection names a known group and uses that group's variant
func CheckShapes(product models.Product, selections models.SelectionSet) error {
	for groupID, sel := range selections {
		g := product.FindOption(groupID)
		if g == nil {
			return fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
		}

		var ok bool
		switch Classify(*g) {
		case Radio:
			_, ok = sel.(models.Single)
		case Checkbox:
			_, ok = sel.(models.Multiple)
		case Counter:
			_, ok = sel.(models.Counted)
		}
		if !ok {
			return fmt.Errorf("%w: group %s expects %s", ErrTypeMismatch, groupID, Classify(*g))
		}
	}
	return nil
}

// Validate is the stateless submission gate used before adding to the cart.
// It rejects unknown groups, mismatched shapes, unsatisfied required groups and
// any group over its maximum.
func Validate(product models.Product, selections models.SelectionSet) error {
	if err := CheckShapes(product, selections); err != nil {
		return err
	}

	validation := ComputeValidation(product.Options, selections, nil)
	if groupID := FirstInvalid(product.Options, validation); groupID != "" {
		return &InvalidSelectionError{GroupID: groupID, Message: validation[groupID].Message}
	}
	for _, g := range product.Options {
		if entry := validation[g.ID]; !entry.IsValid {
			return &InvalidSelectionError{GroupID: g.ID, Message: entry.Message}
		}
	}
	return nil
}
