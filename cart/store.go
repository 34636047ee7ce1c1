package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordrz-storefront/metrics"
	"ordrz-storefront/models"
	"ordrz-storefront/repository"
	"ordrz-storefront/utils"
)

// Operation names, used in logs and as the rollback metric label
const (
	OperationAddItem        = "AddItem"
	OperationRemoveItem     = "RemoveItem"
	OperationUpdateQuantity = "UpdateQuantity"
	OperationClearCart      = "ClearCart"
)

const (
	msgItemAdded       = "Item added to cart"
	msgItemRemoved     = "Item removed from cart."
	msgQuantityUpdated = "Item quantity updated."
	msgCartCleared     = "Cart cleared successfully."
	msgItemNotFound    = "Item not found"
	msgLoadFallback    = "Failed to load cart. Using local storage instead."
)

// StoreOptions configures a Store
type StoreOptions struct {
	// RollbackFailedAdds restores the previous line item when a remote add fails.
	// When false a failed add keeps the optimistic item and only reports the error.
	RollbackFailedAdds bool
	Currency           string
	NotificationTTL    time.Duration
	// Now is the clock used for notification expiry; nil means time.Now
	Now     func() time.Time
	Metrics *metrics.Metrics
}

// Store is one session's cart: the item list, its loading flags and notifications.
// Mutations apply locally first and then sync with the remote cart.
// The mutex is never held across a remote call.
type Store struct {
	remote   RemoteCart
	prefs    repository.PreferenceRepositoryInterface
	logger   *zap.Logger
	opts     StoreOptions
	notifier *Notifier

	mu            sync.Mutex
	items         []models.CartLineItem
	loading       map[string]bool
	globalLoading int
	versions      *versions
	bases         map[string]*keyBase
	lastErr       string
	hasOrderID    bool

	persistMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[int]func(models.CartSnapshot)
	nextSubID   int
}

// NewStore creates an empty store; call Hydrate to load an existing cart
func NewStore(remote RemoteCart, prefs repository.PreferenceRepositoryInterface, logger *zap.Logger, opts StoreOptions) *Store {
	return &Store{
		remote:      remote,
		prefs:       prefs,
		logger:      logger,
		opts:        opts,
		notifier:    NewNotifier(opts.NotificationTTL, opts.Now),
		loading:     make(map[string]bool),
		versions:    newVersions(),
		bases:       make(map[string]*keyBase),
		subscribers: make(map[int]func(models.CartSnapshot)),
	}
}

// keyOp is one in-flight mutation of a single line item
type keyOp struct {
	operation string
	key       string
	version   uint64
	rollback  bool
	base      *keyBase
}

// keyBase is the last state of a line item the remote cart is known to hold.
// It is shared by every overlapping operation on the key, so a rollback never
// lands on a value that an earlier, unconfirmed operation applied.
type keyBase struct {
	item     *models.CartLineItem
	index    int
	inflight int
	// rolledBack is set when the line was restored while older operations were
	// still in flight; the last of them to succeed writes its result back
	rolledBack bool
}

// messages are the notification texts of one mutation
type messages struct {
	rejected      string // remote rejected without a message
	failure       string // transport or local failure
	success       string
	serverSuccess bool // prefer the server's message on success
}

// AddItem adds quantity units of product configured with selections.
// It fails with ErrBranchSelectionRequired, before touching any state, when no branch
// and order type have been chosen. quantity below 1 counts as 1.
// A failed remote add keeps the local item unless RollbackFailedAdds is set.
func (s *Store) AddItem(ctx context.Context, product models.Product, selections models.SelectionSet, quantity int) (*models.CartAPIResponse, error) {
	s.logger.Info("📥 AddItem: received request",
		zap.String("product_id", product.MenuItemID),
		zap.Int("quantity", quantity))

	oc, err := s.prefs.GetOrderContext(ctx)
	if err != nil {
		s.logger.Error("❌ AddItem: failed to read order context", zap.Error(err))
		return nil, fmt.Errorf("failed to read order context: %w", err)
	}
	if !oc.Complete() {
		s.logger.Warn("⚠️ AddItem: branch selection required", zap.String("product_id", product.MenuItemID))
		return nil, ErrBranchSelectionRequired
	}
	if quantity < 1 {
		quantity = 1
	}

	uniqueID := GenerateUniqueID(product.MenuItemID, selections)
	options := ProcessOptions(product, selections)
	price := CalculateTotalPrice(product.Price, options)

	s.mu.Lock()
	op := s.beginKeyLocked(OperationAddItem, uniqueID, s.opts.RollbackFailedAdds)
	var item models.CartLineItem
	if idx := s.indexLocked(uniqueID); idx >= 0 {
		s.items[idx].Quantity += quantity
		item = s.items[idx].Clone()
	} else {
		item = models.CartLineItem{
			ID:            product.MenuItemID,
			Name:          product.Name,
			Price:         price,
			Image:         product.Image,
			Quantity:      quantity,
			OriginalPrice: product.OriginalPrice,
			Discount:      product.Discount,
			Options:       options,
			UniqueID:      uniqueID,
			CategoryID:    product.MenuCatID,
			CategoryName:  product.Category,
		}
		s.items = append(s.items, item.Clone())
	}
	s.hasOrderID = true
	s.mu.Unlock()
	s.changed(ctx)

	return s.syncKey(ctx, op, models.ActionAdd, oc, item, messages{
		rejected: "Failed to add item to cart",
		failure:  "Failed to add item to cart. Please try again.",
		success:  msgItemAdded,
	})
}

// RemoveItem deletes the line item; a failed remote delete restores it
func (s *Store) RemoveItem(ctx context.Context, uniqueID string) error {
	s.logger.Info("📥 RemoveItem: received request", zap.String("unique_id", uniqueID))

	return s.removeItem(ctx, OperationRemoveItem, uniqueID, messages{
		rejected:      "Failed to remove item from cart",
		failure:       "Failed to remove item from cart. Please try again.",
		success:       msgItemRemoved,
		serverSuccess: true,
	})
}

// UpdateQuantity sets the quantity of a line item.
// quantity <= 0 removes the item, a decrease syncs as "sub", an increase as "add",
// and an unchanged quantity does nothing. Failures roll back.
func (s *Store) UpdateQuantity(ctx context.Context, uniqueID string, quantity int) error {
	s.logger.Info("📥 UpdateQuantity: received request",
		zap.String("unique_id", uniqueID),
		zap.Int("quantity", quantity))

	if quantity <= 0 {
		return s.removeItem(ctx, OperationUpdateQuantity, uniqueID, messages{
			rejected:      "Failed to remove item",
			failure:       "Failed to update item quantity. Please try again.",
			success:       msgItemRemoved,
			serverSuccess: true,
		})
	}

	oc, err := s.prefs.GetOrderContext(ctx)
	if err != nil {
		s.logger.Error("❌ UpdateQuantity: failed to read order context", zap.Error(err))
		return fmt.Errorf("failed to read order context: %w", err)
	}

	s.mu.Lock()
	idx := s.indexLocked(uniqueID)
	if idx < 0 {
		s.mu.Unlock()
		return s.notFound(OperationUpdateQuantity, uniqueID)
	}
	current := s.items[idx].Quantity
	if quantity == current {
		s.mu.Unlock()
		return nil
	}
	op := s.beginKeyLocked(OperationUpdateQuantity, uniqueID, true)
	s.items[idx].Quantity = quantity
	item := s.items[idx].Clone()
	s.mu.Unlock()
	s.changed(ctx)

	action := models.ActionAdd
	msgs := messages{
		rejected: "Failed to update quantity",
		failure:  "Failed to update item quantity. Please try again.",
		success:  msgItemAdded,
	}
	if quantity < current {
		action = models.ActionSub
		msgs.success = msgQuantityUpdated
		msgs.serverSuccess = true
	}

	_, err = s.syncKey(ctx, op, action, oc, item, msgs)
	return err
}

func (s *Store) removeItem(ctx context.Context, operation, uniqueID string, msgs messages) error {
	oc, err := s.prefs.GetOrderContext(ctx)
	if err != nil {
		s.logger.Error("❌ "+operation+": failed to read order context", zap.Error(err))
		return fmt.Errorf("failed to read order context: %w", err)
	}

	s.mu.Lock()
	idx := s.indexLocked(uniqueID)
	if idx < 0 {
		s.mu.Unlock()
		return s.notFound(operation, uniqueID)
	}
	op := s.beginKeyLocked(operation, uniqueID, true)
	item := s.items[idx].Clone()
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()
	s.changed(ctx)

	_, err = s.syncKey(ctx, op, models.ActionDelete, oc, item, msgs)
	return err
}

// ClearCart empties the cart and clears the remote cart for the current order id.
// A failure restores the previous items unless another operation has started since.
func (s *Store) ClearCart(ctx context.Context) error {
	s.logger.Info("📥 ClearCart: received request")

	s.mu.Lock()
	version := s.versions.beginClear()
	previous := cloneItems(s.items)
	s.items = nil
	s.loading = make(map[string]bool)
	s.bases = make(map[string]*keyBase)
	s.globalLoading++
	s.mu.Unlock()
	s.changed(ctx)

	defer func() {
		s.mu.Lock()
		s.globalLoading--
		s.mu.Unlock()
		s.publish()
	}()

	resp, err := s.clearRemote(ctx)
	if err != nil {
		message := userMessage(err, "Failed to clear cart", "Failed to clear cart. Please try again.")

		s.mu.Lock()
		superseded := s.versions.cartSuperseded(version)
		if !superseded {
			s.items = previous
		}
		s.lastErr = message
		s.mu.Unlock()

		if !superseded {
			s.opts.Metrics.RecordRollback(OperationClearCart)
			s.persist(ctx)
		}
		s.logger.Error("❌ ClearCart: failed",
			zap.Bool("rolled_back", !superseded),
			zap.Error(err))
		s.notifier.Show(message)
		return err
	}

	message := msgCartCleared
	if resp.Message != "" {
		message = resp.Message
	}
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Info("✅ ClearCart: cleared")
	s.notifier.Show(message)
	return nil
}

func (s *Store) clearRemote(ctx context.Context) (*models.CartAPIResponse, error) {
	orderID, err := s.prefs.GetOrderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read order id: %w", err)
	}
	if orderID == "" {
		return nil, ErrNoOrderID
	}
	oc, err := s.prefs.GetOrderContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read order context: %w", err)
	}

	resp, err := s.remote.Clear(ctx, oc.BusinessID, orderID)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return resp, nil
}

// OrderPlaced tears the cart down after a confirmed order: the cart is cleared
// and the order ids are forgotten so the next add starts a new remote cart
func (s *Store) OrderPlaced(ctx context.Context) error {
	s.logger.Info("📥 OrderPlaced: tearing down cart")

	if err := s.ClearCart(ctx); err != nil {
		s.logger.Warn("⚠️ OrderPlaced: remote clear failed", zap.Error(err))
	}

	s.mu.Lock()
	s.versions.beginClear()
	s.items = nil
	s.loading = make(map[string]bool)
	s.bases = make(map[string]*keyBase)
	s.hasOrderID = false
	s.mu.Unlock()

	if err := s.prefs.ClearOrderIDs(ctx); err != nil {
		s.logger.Error("❌ OrderPlaced: failed to clear order ids", zap.Error(err))
		return fmt.Errorf("failed to clear order ids: %w", err)
	}

	s.changed(ctx)
	s.logger.Info("✅ OrderPlaced: cart torn down")
	return nil
}

// Hydrate loads the cart for the saved order id. Without an order id it does nothing.
// A remote answer with status 200 replaces the items; any other outcome falls back to
// the mirrored item list. Mutations started during the load win over its result.
func (s *Store) Hydrate(ctx context.Context) error {
	orderID, err := s.prefs.GetOrderID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read order id: %w", err)
	}
	if orderID == "" {
		s.logger.Info("ℹ️ Hydrate: no order id, skipping cart load")
		return nil
	}

	oc, err := s.prefs.GetOrderContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to read order context: %w", err)
	}

	s.mu.Lock()
	s.globalLoading++
	s.lastErr = ""
	s.loading = make(map[string]bool)
	startVersion := s.versions.current()
	s.mu.Unlock()
	s.publish()

	defer func() {
		s.mu.Lock()
		s.globalLoading--
		s.mu.Unlock()
		s.publish()
	}()

	resp, fetchErr := s.remote.Fetch(ctx, oc.BusinessID, orderID)

	var items []models.CartLineItem
	fromRemote := fetchErr == nil && resp != nil && resp.Status == http.StatusOK && resp.Result != nil
	if fromRemote {
		s.saveTempOrderID(ctx, resp)
		items = TransformRemoteItems(resp.Result.Items)
	} else {
		if fetchErr != nil {
			s.logger.Error("❌ Hydrate: remote fetch failed, using saved cart", zap.Error(fetchErr))
		}
		saved, err := s.prefs.GetSavedCart(ctx)
		if err != nil {
			s.logger.Warn("⚠️ Hydrate: failed to read saved cart", zap.Error(err))
		}
		items = saved
	}

	s.mu.Lock()
	applied := !s.versions.cartSuperseded(startVersion)
	if applied {
		s.items = items
		if fromRemote && len(items) > 0 {
			s.hasOrderID = true
		}
	}
	if fetchErr != nil {
		s.lastErr = msgLoadFallback
	}
	s.mu.Unlock()

	if applied && fromRemote {
		s.persist(ctx)
	}

	s.logger.Info("✅ Hydrate: cart loaded",
		zap.Bool("from_remote", fromRemote),
		zap.Bool("applied", applied),
		zap.Int("items", len(items)))
	return nil
}

// syncKey sends one line item to the remote cart and settles op
func (s *Store) syncKey(ctx context.Context, op *keyOp, action string, oc models.OrderContext, item models.CartLineItem, msgs messages) (*models.CartAPIResponse, error) {
	defer func() {
		s.mu.Lock()
		if !s.versions.keySuperseded(op.key, op.version) {
			delete(s.loading, op.key)
		}
		op.base.inflight--
		if op.base.inflight == 0 && s.bases[op.key] == op.base {
			delete(s.bases, op.key)
		}
		s.mu.Unlock()
		s.publish()
	}()

	resp, err := s.mutateRemote(ctx, action, oc, item)
	if err != nil {
		return nil, s.failKey(ctx, op, err, msgs)
	}

	s.saveTempOrderID(ctx, resp)

	s.mu.Lock()
	if action == models.ActionDelete {
		op.base.item = nil
	} else {
		confirmed := item.Clone()
		op.base.item = &confirmed
		if idx := s.indexLocked(op.key); idx >= 0 {
			op.base.index = idx
		}
	}
	// a newer operation rolled the line back, but the remote took this one
	reapplied := op.base.rolledBack && op.base.inflight == 1
	if reapplied {
		s.restoreLocked(op)
		op.base.rolledBack = false
	}
	s.mu.Unlock()

	if reapplied {
		s.logger.Info("🔁 "+op.operation+": reapplied after a newer operation rolled back",
			zap.String("unique_id", op.key))
		s.persist(ctx)
	}

	message := msgs.success
	if msgs.serverSuccess && resp.Message != "" {
		message = resp.Message
	}
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Info("✅ "+op.operation+": synced",
		zap.String("unique_id", op.key),
		zap.String("action", action))
	s.notifier.Show(message)
	return resp, nil
}

func (s *Store) mutateRemote(ctx context.Context, action string, oc models.OrderContext, item models.CartLineItem) (*models.CartAPIResponse, error) {
	orderID, err := s.prefs.EnsureOrderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure order id: %w", err)
	}

	resp, err := s.remote.Mutate(ctx, action, oc, orderID, item)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return resp, nil
}

// failKey reports a failed mutation and rolls it back unless a newer operation owns the key
func (s *Store) failKey(ctx context.Context, op *keyOp, err error, msgs messages) error {
	message := userMessage(err, msgs.rejected, msgs.failure)

	s.mu.Lock()
	superseded := s.versions.keySuperseded(op.key, op.version)
	rolledBack := op.rollback && !superseded
	if rolledBack {
		s.restoreLocked(op)
		op.base.rolledBack = op.base.inflight > 1
	}
	s.lastErr = message
	s.mu.Unlock()

	if rolledBack {
		s.opts.Metrics.RecordRollback(op.operation)
		s.persist(ctx)
	}

	s.logger.Error("❌ "+op.operation+": remote sync failed",
		zap.String("unique_id", op.key),
		zap.Bool("rolled_back", rolledBack),
		zap.Bool("superseded", superseded),
		zap.Error(err))
	s.notifier.Show(message)
	return err
}

func (s *Store) notFound(operation, uniqueID string) error {
	s.logger.Warn("⚠️ "+operation+": item not found", zap.String("unique_id", uniqueID))

	s.mu.Lock()
	s.lastErr = msgItemNotFound
	s.mu.Unlock()

	s.notifier.Show(msgItemNotFound)
	s.publish()
	return ErrItemNotFound
}

func (s *Store) saveTempOrderID(ctx context.Context, resp *models.CartAPIResponse) {
	if resp == nil || resp.Result == nil || resp.Result.TempOrderID == "" {
		return
	}
	if err := s.prefs.SaveTempOrderID(context.WithoutCancel(ctx), resp.Result.TempOrderID); err != nil {
		s.logger.Warn("⚠️ failed to save temp order id", zap.Error(err))
	}
}

// beginKeyLocked registers a new operation on key. The first of a run of overlapping
// operations records the line item as the confirmed base; later ones share it.
func (s *Store) beginKeyLocked(operation, key string, rollback bool) *keyOp {
	base := s.bases[key]
	if base == nil {
		base = &keyBase{index: -1}
		if idx := s.indexLocked(key); idx >= 0 {
			prev := s.items[idx].Clone()
			base.item = &prev
			base.index = idx
		}
		s.bases[key] = base
	}
	base.inflight++
	base.rolledBack = false

	s.loading[key] = true
	return &keyOp{
		operation: operation,
		key:       key,
		version:   s.versions.beginKey(key),
		rollback:  rollback,
		base:      base,
	}
}

// restoreLocked puts the line item of op back to the last confirmed state
func (s *Store) restoreLocked(op *keyOp) {
	if idx := s.indexLocked(op.key); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	if op.base.item == nil {
		return
	}

	at := op.base.index
	if at < 0 || at > len(s.items) {
		at = len(s.items)
	}
	s.items = append(s.items, models.CartLineItem{})
	copy(s.items[at+1:], s.items[at:])
	s.items[at] = op.base.item.Clone()
}

func (s *Store) indexLocked(uniqueID string) int {
	for i := range s.items {
		if s.items[i].UniqueID == uniqueID {
			return i
		}
	}
	return -1
}

// changed mirrors the item list and notifies subscribers
func (s *Store) changed(ctx context.Context) {
	s.persist(ctx)
	s.publish()
}

// persist writes the current item list to the preference repository.
// The write outlives a cancelled request.
func (s *Store) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	items := cloneItems(s.items)
	s.mu.Unlock()

	if err := s.prefs.SaveCart(context.WithoutCancel(ctx), items); err != nil {
		s.logger.Warn("⚠️ failed to mirror cart", zap.Error(err))
	}
}

// Subscribe registers fn to receive a snapshot after every change.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(models.CartSnapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) publish() {
	s.subMu.Lock()
	subs := make([]func(models.CartSnapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	if len(subs) == 0 {
		return
	}
	snapshot := s.Snapshot()
	for _, fn := range subs {
		fn(snapshot)
	}
}

// Items returns a copy of the line items in cart order
func (s *Store) Items() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// TotalItems returns the sum of all quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// Subtotal returns the sum of price times quantity
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.items)
}

// GetItemQuantity returns the quantity of the line item for product and selections, or 0
func (s *Store) GetItemQuantity(productID string, selections models.SelectionSet) int {
	uniqueID := GenerateUniqueID(productID, selections)

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(uniqueID); idx >= 0 {
		return s.items[idx].Quantity
	}
	return 0
}

// IsItemLoading reports whether an operation on the line item for product and selections is in flight
func (s *Store) IsItemLoading(productID string, selections models.SelectionSet) bool {
	uniqueID := GenerateUniqueID(productID, selections)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[uniqueID]
}

// IsLoading reports whether a cart-wide operation (load or clear) is in flight
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globalLoading > 0
}

// ErrorMessage returns the message of the last failure, or "" after a success
func (s *Store) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// HasOrderID reports whether the cart is linked to a remote order
func (s *Store) HasOrderID() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasOrderID
}

// ResetAllLoadingStates clears every per-item loading flag
func (s *Store) ResetAllLoadingStates() {
	s.mu.Lock()
	if len(s.loading) == 0 {
		s.mu.Unlock()
		return
	}
	s.loading = make(map[string]bool)
	s.mu.Unlock()
	s.publish()
}

// Notification returns the current notification
func (s *Store) Notification() models.Notification {
	return s.notifier.Current()
}

// HideNotification dismisses the current notification
func (s *Store) HideNotification() {
	s.notifier.Hide()
	s.publish()
}

// Snapshot returns the items with their derived aggregates and UI signals
func (s *Store) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	items := cloneItems(s.items)
	loadingItems := make([]string, 0, len(s.loading))
	for key, loading := range s.loading {
		if loading {
			loadingItems = append(loadingItems, key)
		}
	}
	isLoading := s.globalLoading > 0
	lastErr := s.lastErr
	hasOrderID := s.hasOrderID
	s.mu.Unlock()

	sort.Strings(loadingItems)
	sub := subtotal(items)

	return models.CartSnapshot{
		Items:        items,
		TotalItems:   totalItems(items),
		Subtotal:     utils.FormatPrice(sub),
		SubtotalText: utils.FormatCurrency(sub, s.opts.Currency),
		Currency:     s.opts.Currency,
		IsLoading:    isLoading,
		LoadingItems: loadingItems,
		Notification: s.notifier.Current(),
		Error:        lastErr,
		HasOrderID:   hasOrderID,
	}
}

func totalItems(items []models.CartLineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func subtotal(items []models.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(utils.ParsePrice(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func cloneItems(items []models.CartLineItem) []models.CartLineItem {
	out := make([]models.CartLineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// checkResponse turns a nil or non-200 response into an error
func checkResponse(resp *models.CartAPIResponse, err error) error {
	if err != nil {
		return err
	}
	if resp == nil {
		return NewTransportFailure("empty response from cart service", nil)
	}
	if resp.Status != http.StatusOK {
		return NewRemoteRejected(resp.Message)
	}
	return nil
}

// userMessage picks the notification text for a failed operation
func userMessage(err error, rejected, failure string) string {
	var cartErr *Error
	if errors.As(err, &cartErr) && cartErr.Code == CodeRemoteRejected {
		if cartErr.Message != "" {
			return cartErr.Message
		}
		return rejected
	}
	return failure
}
