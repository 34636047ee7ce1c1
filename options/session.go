package options

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"ordrz-storefront/models"
	"ordrz-storefront/utils"
)

// Session is the selection state of one product-options interaction.
// Mutations mark their group as interacted and schedule a debounced revalidation;
// every read flushes a pending revalidation first, so reads are never stale.
// After each revalidation, a successful active group hands focus to the next
// required group that still needs attention.
type Session struct {
	mu         sync.Mutex
	product    models.Product
	selections models.SelectionSet
	validation map[string]models.ValidationEntry
	expanded   map[string]bool
	active     string
	scroll     string
	quantity   int
	sizePrice  *decimal.Decimal
	dirty      bool
	debounce   *debouncer
}

// NewSession opens a session on product. The first required group (or the first group
// when none is required) starts expanded and active.
func NewSession(product models.Product) *Session {
	s := &Session{
		product:    product,
		selections: models.SelectionSet{},
		validation: InitialValidation(product.Options),
		expanded:   make(map[string]bool, len(product.Options)),
		quantity:   1,
	}

	for _, g := range product.Options {
		s.expanded[g.ID] = false
		if s.active == "" && IsRequired(g) {
			s.active = g.ID
		}
	}
	if s.active == "" && len(product.Options) > 0 {
		s.active = product.Options[0].ID
	}
	if s.active != "" {
		s.expanded[s.active] = true
	}

	s.debounce = newDebouncer(DefaultDebounce, s.flush)
	return s
}

// Close stops a pending revalidation
func (s *Session) Close() {
	s.debounce.Stop()
}

func (s *Session) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked()
}

func (s *Session) recomputeLocked() {
	if !s.dirty {
		return
	}
	s.validation = ComputeValidation(s.product.Options, s.selections, s.validation)
	s.dirty = false
	s.autoAdvanceLocked()
}

// autoAdvanceLocked moves focus from a successful active group to the next required
// group, in catalog order, that is not yet valid with success
func (s *Session) autoAdvanceLocked() {
	current, ok := s.validation[s.active]
	if !ok || !current.IsValid || current.Status != models.StatusSuccess {
		return
	}

	idx := -1
	for i, g := range s.product.Options {
		if g.ID == s.active {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	for _, next := range s.product.Options[idx+1:] {
		entry := s.validation[next.ID]
		if IsRequired(next) && (!entry.IsValid || entry.Status != models.StatusSuccess) {
			s.expanded[s.active] = false
			s.expanded[next.ID] = true
			s.active = next.ID
			s.scroll = next.ID
			return
		}
	}
}

// touchLocked marks groupID as interacted and schedules a revalidation
func (s *Session) touchLocked(groupID string) {
	entry := s.validation[groupID]
	entry.Interacted = true
	s.validation[groupID] = entry
	s.dirty = true
	s.debounce.Trigger()
}

func (s *Session) groupLocked(groupID string, want Type) (*models.ProductOption, error) {
	g := s.product.FindOption(groupID)
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}
	if got := Classify(*g); got != want {
		return nil, fmt.Errorf("%w: group %s is a %s", ErrTypeMismatch, groupID, got)
	}
	return g, nil
}

func isSizeGroup(g *models.ProductOption) bool {
	return strings.Contains(strings.ToLower(g.Name), "size")
}

// SelectRadio chooses itemID in a radio group, replacing any previous choice.
// Choosing in a group whose name contains "size" replaces the base price.
func (s *Session) SelectRadio(groupID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.groupLocked(groupID, Radio)
	if err != nil {
		return err
	}
	item := g.FindItem(itemID)
	if item == nil {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	s.selections[groupID] = models.Single{ItemID: itemID}
	if isSizeGroup(g) {
		price := utils.ParsePrice(item.Price)
		s.sizePrice = &price
	}
	s.touchLocked(groupID)
	return nil
}

// ToggleCheckbox adds or removes itemID. An addition past the group's maximum is
// refused with ErrSelectionLimit and leaves the selection unchanged.
func (s *Session) ToggleCheckbox(groupID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.groupLocked(groupID, Checkbox)
	if err != nil {
		return err
	}
	if g.FindItem(itemID) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	_, maxQty := Limits(*g)

	current, _ := s.selections[groupID].(models.Multiple)
	ids := append([]string(nil), current.ItemIDs...)

	removed := false
	for i, id := range ids {
		if id == itemID {
			ids = append(ids[:i], ids[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		if maxQty > 0 && len(ids) >= maxQty {
			s.touchLocked(groupID)
			return ErrSelectionLimit
		}
		ids = append(ids, itemID)
	}

	s.selections[groupID] = models.Multiple{ItemIDs: ids}
	s.touchLocked(groupID)
	return nil
}

// SetCounter sets the count of itemID in a counter group.
// A decrease that would take a required group under its minimum is refused with
// ErrBelowMinimum. A count that would push the group past its maximum is clamped
// to the maximum and reported with ErrSelectionLimit.
func (s *Session) SetCounter(groupID, itemID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.groupLocked(groupID, Counter)
	if err != nil {
		return err
	}
	if g.FindItem(itemID) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	minQty, maxQty := Limits(*g)

	existing, _ := s.selections[groupID].(models.Counted)
	counts := make(map[string]int, len(existing.Counts)+1)
	others := 0
	for id, qty := range existing.Counts {
		counts[id] = qty
		if id != itemID && qty > 0 {
			others += qty
		}
	}
	current := counts[itemID]

	if count < 0 {
		count = 0
	}
	if count < current && IsRequired(*g) && others+count < effectiveMin(minQty) {
		return ErrBelowMinimum
	}

	var limitErr error
	if maxQty > 0 && others+count > maxQty {
		count = maxQty - others
		if count < 0 {
			count = 0
		}
		limitErr = ErrSelectionLimit
	}

	if count == 0 {
		delete(counts, itemID)
	} else {
		counts[itemID] = count
	}
	s.selections[groupID] = models.Counted{Counts: counts}
	s.touchLocked(groupID)
	return limitErr
}

// Increment adds one unit of itemID
func (s *Session) Increment(groupID, itemID string) error {
	return s.SetCounter(groupID, itemID, s.Count(groupID, itemID)+1)
}

// Decrement removes one unit of itemID; at zero it is refused with ErrBelowMinimum
func (s *Session) Decrement(groupID, itemID string) error {
	current := s.Count(groupID, itemID)
	if current <= 0 {
		return ErrBelowMinimum
	}
	return s.SetCounter(groupID, itemID, current-1)
}

// Count returns the current count of itemID in a counter group
func (s *Session) Count(groupID, itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counted, _ := s.selections[groupID].(models.Counted)
	return counted.Counts[itemID]
}

// CanDecrement reports whether Decrement would be accepted
func (s *Session) CanDecrement(groupID, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.product.FindOption(groupID)
	if g == nil {
		return false
	}
	counted, _ := s.selections[groupID].(models.Counted)
	current := counted.Counts[itemID]
	if current <= 0 {
		return false
	}
	if !IsRequired(*g) {
		return true
	}
	minQty, _ := Limits(*g)
	return counted.Total() > effectiveMin(minQty)
}

// Toggle expands or collapses a group, makes it active and marks it interacted
func (s *Session) Toggle(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.product.FindOption(groupID) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}

	wasExpanded := s.expanded[groupID]
	s.expanded[groupID] = !wasExpanded
	s.active = groupID
	if !wasExpanded {
		s.scroll = groupID
	}

	entry := s.validation[groupID]
	entry.Interacted = true
	s.validation[groupID] = entry
	return nil
}

// SetQuantity sets how many units the modal will add; values below 1 count as 1
func (s *Session) SetQuantity(quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}
	s.quantity = quantity
}

// Load replaces the selections wholesale, as submitted by a client, and revalidates at once.
// Every submitted group counts as interacted. activeID, when known, becomes the active group.
func (s *Session) Load(selections models.SelectionSet, activeID string) error {
	if err := CheckShapes(s.product, selections); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selections = selections.Clone()
	if s.selections == nil {
		s.selections = models.SelectionSet{}
	}
	s.sizePrice = nil

	for groupID, sel := range s.selections {
		g := s.product.FindOption(groupID)
		entry := s.validation[groupID]
		entry.Interacted = true
		s.validation[groupID] = entry

		if single, ok := sel.(models.Single); ok && isSizeGroup(g) {
			if item := g.FindItem(single.ItemID); item != nil {
				price := utils.ParsePrice(item.Price)
				s.sizePrice = &price
			}
		}
	}

	if activeID != "" && s.product.FindOption(activeID) != nil {
		s.expanded[s.active] = false
		s.active = activeID
		s.expanded[activeID] = true
	}

	s.dirty = true
	s.recomputeLocked()
	return nil
}

// Validation returns the current entry of every group
func (s *Session) Validation() map[string]models.ValidationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	return copyValidation(s.validation)
}

// IsFormValid reports whether every required group is valid
func (s *Session) IsFormValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	return IsFormValid(s.product.Options, s.validation)
}

// ActiveOptionID returns the focused group
func (s *Session) ActiveOptionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	return s.active
}

// Expanded returns which groups are expanded
func (s *Session) Expanded() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	return copyExpanded(s.expanded)
}

// ScrollTarget returns the group that should be scrolled into view, if any
func (s *Session) ScrollTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	return s.scroll
}

// TotalPrice returns the modal price: base price (or the chosen size price) plus
// the chosen options, times the quantity
func (s *Session) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPriceLocked()
}

func (s *Session) totalPriceLocked() decimal.Decimal {
	total := utils.ParsePrice(s.product.Price)
	if s.sizePrice != nil {
		total = *s.sizePrice
	}

	for i := range s.product.Options {
		g := &s.product.Options[i]
		switch v := s.selections[g.ID].(type) {
		case models.Single:
			// the size price already replaced the base
			if isSizeGroup(g) {
				continue
			}
			if item := g.FindItem(v.ItemID); item != nil {
				total = total.Add(utils.ParsePrice(item.Price))
			}
		case models.Multiple:
			for _, id := range models.DistinctIDs(v.ItemIDs) {
				if item := g.FindItem(id); item != nil {
					total = total.Add(utils.ParsePrice(item.Price))
				}
			}
		case models.Counted:
			for id, qty := range v.Counts {
				if item := g.FindItem(id); item != nil && qty > 0 {
					total = total.Add(utils.ParsePrice(item.Price).Mul(decimal.NewFromInt(int64(qty))))
				}
			}
		}
	}

	return total.Mul(decimal.NewFromInt(int64(s.quantity)))
}

// Submit is the submission gate. Every group becomes interacted. When a required group
// is invalid, only that group is expanded, it becomes active and the scroll target, and
// an *InvalidSelectionError is returned. Otherwise the selections are returned with
// empty groups dropped.
func (s *Session) Submit() (models.SelectionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	for id, entry := range s.validation {
		entry.Interacted = true
		s.validation[id] = entry
	}

	if groupID := FirstInvalid(s.product.Options, s.validation); groupID != "" {
		for id := range s.expanded {
			s.expanded[id] = false
		}
		s.expanded[groupID] = true
		s.active = groupID
		s.scroll = groupID
		return nil, &InvalidSelectionError{GroupID: groupID, Message: s.validation[groupID].Message}
	}

	return s.submittedLocked(), nil
}

func (s *Session) submittedLocked() models.SelectionSet {
	return s.selections.Normalize()
}

// State returns everything a client needs to render the session
func (s *Session) State() models.OptionsValidationResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	return models.OptionsValidationResponse{
		Validation:      copyValidation(s.validation),
		FormValid:       IsFormValid(s.product.Options, s.validation),
		FirstInvalid:    FirstInvalid(s.product.Options, s.validation),
		ActiveOptionID:  s.active,
		ExpandedOptions: copyExpanded(s.expanded),
		ScrollTarget:    s.scroll,
		TotalPrice:      utils.FormatPrice(s.totalPriceLocked()),
		SelectedOptions: s.submittedLocked(),
	}
}

func copyValidation(in map[string]models.ValidationEntry) map[string]models.ValidationEntry {
	out := make(map[string]models.ValidationEntry, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyExpanded(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
