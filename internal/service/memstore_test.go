package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store. WithTx holds a single lock for the whole
// callback, so transactions serialise like they would on locked rows, and
// a failed callback restores the snapshot taken at its start.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *memData
	fail map[string]error

	// lockTrace records item ids in the order GetByIDForUpdate saw them.
	lockTrace []int32
}

type memData struct {
	seq           int32
	users         map[int32]domain.User
	items         map[int32]domain.Item
	carts         map[int32]domain.CartLine
	negotiations  map[int32]domain.Negotiation
	orders        map[int32]domain.Order
	orderLines    map[int32]domain.OrderLine
	rentals       map[int32]domain.Rental
	deliveries    map[int32]domain.Delivery
	txns          map[int32]domain.Transaction
	withdrawals   map[int32]domain.WithdrawalRequest
	notifications map[int32]domain.Notification
	configs       map[string]domain.AdminConfig
	paymentClaims map[int32]time.Time
}

func newMemStore() *memStore {
	return &memStore{
		data: &memData{
			users:         map[int32]domain.User{},
			items:         map[int32]domain.Item{},
			carts:         map[int32]domain.CartLine{},
			negotiations:  map[int32]domain.Negotiation{},
			orders:        map[int32]domain.Order{},
			orderLines:    map[int32]domain.OrderLine{},
			rentals:       map[int32]domain.Rental{},
			deliveries:    map[int32]domain.Delivery{},
			txns:          map[int32]domain.Transaction{},
			withdrawals:   map[int32]domain.WithdrawalRequest{},
			notifications: map[int32]domain.Notification{},
			configs:       map[string]domain.AdminConfig{},
			paymentClaims: map[int32]time.Time{},
		},
		fail: map[string]error{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memData) clone() *memData {
	return &memData{
		seq:           d.seq,
		users:         cloneMap(d.users),
		items:         cloneMap(d.items),
		carts:         cloneMap(d.carts),
		negotiations:  cloneMap(d.negotiations),
		orders:        cloneMap(d.orders),
		orderLines:    cloneMap(d.orderLines),
		rentals:       cloneMap(d.rentals),
		deliveries:    cloneMap(d.deliveries),
		txns:          cloneMap(d.txns),
		withdrawals:   cloneMap(d.withdrawals),
		notifications: cloneMap(d.notifications),
		configs:       cloneMap(d.configs),
		paymentClaims: cloneMap(d.paymentClaims),
	}
}

func (s *memStore) WithTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// failWith makes the named operation return err.
func (s *memStore) failWith(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// lock acquires the data lock and returns the injected failure for op, if any.
func (s *memStore) lock(op string) error {
	s.mu.Lock()
	return s.fail[op]
}

func (s *memStore) nextID() int32 {
	s.data.seq++
	return s.data.seq
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func pageOf[T any](all []T, page, pageSize int32) ([]T, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total := int32(len(all))
	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total
}

func (s *memStore) Users() repository.UserRepository                 { return memUsers{s} }
func (s *memStore) Items() repository.ItemRepository                 { return memItems{s} }
func (s *memStore) Carts() repository.CartRepository                 { return memCarts{s} }
func (s *memStore) Negotiations() repository.NegotiationRepository   { return memNegotiations{s} }
func (s *memStore) Orders() repository.OrderRepository               { return memOrders{s} }
func (s *memStore) Rentals() repository.RentalRepository             { return memRentals{s} }
func (s *memStore) Deliveries() repository.DeliveryRepository        { return memDeliveries{s} }
func (s *memStore) Transactions() repository.TransactionRepository   { return memTransactions{s} }
func (s *memStore) Withdrawals() repository.WithdrawalRepository     { return memWithdrawals{s} }
func (s *memStore) Notifications() repository.NotificationRepository { return memNotifications{s} }
func (s *memStore) AdminConfigs() repository.AdminConfigRepository   { return memConfigs{s} }

// seeding and inspection helpers

func (s *memStore) putUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.ID] = u
}

func (s *memStore) putItem(i domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.Status == "" {
		i.Status = domain.ItemStatusAvailable
	}
	s.data.items[i.ID] = i
}

func (s *memStore) putCartLine(c domain.CartLine) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	s.data.carts[c.ID] = c
	return c.ID
}

func (s *memStore) putConfig(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.configs[key] = domain.AdminConfig{Key: key, Value: value}
}

func (s *memStore) item(id int32) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.items[id]
}

func (s *memStore) user(id int32) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.users[id]
}

func (s *memStore) countOrders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

func (s *memStore) cartOf(userID int32) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CartLine
	for _, c := range sortedValues(s.data.carts, func(a, b domain.CartLine) bool { return a.ID < b.ID }) {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) ledgerOf(userID int32) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	for _, t := range sortedValues(s.data.txns, func(a, b domain.Transaction) bool { return a.ID < b.ID }) {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// users

type memUsers struct{ s *memStore }

func (r memUsers) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	if err := r.s.lock("Users.GetByID"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok || u.Status == domain.UserStatusDeleted {
		return nil, apperror.NotFound("User not found")
	}
	return &u, nil
}

func (r memUsers) GetByIDForUpdate(ctx context.Context, id int32) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r memUsers) UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) error {
	if err := r.s.lock("Users.UpdateBalance"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return apperror.NotFound("User not found")
	}
	if balance.IsNegative() {
		return apperror.Validation("balance must not be negative")
	}
	u.Balance = balance
	r.s.data.users[id] = u
	return nil
}

// items

type memItems struct{ s *memStore }

func (r memItems) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	if err := r.s.lock("Items.GetByID"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	i, ok := r.s.data.items[id]
	if !ok {
		return nil, apperror.NotFound("Item not found")
	}
	return &i, nil
}

func (r memItems) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Item, error) {
	r.s.mu.Lock()
	r.s.lockTrace = append(r.s.lockTrace, id)
	r.s.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r memItems) DecrementQuantity(ctx context.Context, id int32, by int32) error {
	if err := r.s.lock("Items.DecrementQuantity"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	i, ok := r.s.data.items[id]
	if !ok || i.Quantity < by {
		return apperror.Validation("Insufficient quantity for item %d", id)
	}
	i.Quantity -= by
	r.s.data.items[id] = i
	return nil
}

// carts

type memCarts struct{ s *memStore }

func (r memCarts) ListByUser(ctx context.Context, userID int32) ([]domain.CartLine, error) {
	if err := r.s.lock("Carts.ListByUser"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	r.s.mu.Unlock()
	return r.s.cartOf(userID), nil
}

func (r memCarts) find(userID, itemID int32, lineType domain.LineType) (domain.CartLine, bool) {
	for _, c := range r.s.data.carts {
		if c.UserID == userID && c.ItemID == itemID && c.Type == lineType {
			return c, true
		}
	}
	return domain.CartLine{}, false
}

func (r memCarts) GetByKey(ctx context.Context, userID, itemID int32, lineType domain.LineType) (*domain.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.find(userID, itemID, lineType)
	if !ok {
		return nil, apperror.NotFound("Cart item not found")
	}
	return &c, nil
}

func (r memCarts) Create(ctx context.Context, line *domain.CartLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.find(line.UserID, line.ItemID, line.Type); ok {
		return apperror.Conflict("create cart item: already exists")
	}
	line.ID = r.s.nextID()
	r.s.data.carts[line.ID] = *line
	return nil
}

func (r memCarts) UpdateQuantity(ctx context.Context, id, userID, quantity int32) (*domain.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.carts[id]
	if !ok || c.UserID != userID {
		return nil, apperror.NotFound("Cart item not found")
	}
	c.Quantity = quantity
	r.s.data.carts[id] = c
	return &c, nil
}

func (r memCarts) Delete(ctx context.Context, id, userID int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.carts[id]
	if !ok || c.UserID != userID {
		return apperror.NotFound("Cart item not found")
	}
	delete(r.s.data.carts, id)
	return nil
}

func (r memCarts) ClearByUser(ctx context.Context, userID int32) error {
	if err := r.s.lock("Carts.ClearByUser"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	for id, c := range r.s.data.carts {
		if c.UserID == userID {
			delete(r.s.data.carts, id)
		}
	}
	return nil
}

func (r memCarts) UpsertNegotiated(ctx context.Context, line *domain.CartLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.find(line.UserID, line.ItemID, line.Type); ok {
		c.NegotiatedPrice = line.NegotiatedPrice
		c.NegotiatedExpiresAt = line.NegotiatedExpiresAt
		c.NegotiationID = line.NegotiationID
		r.s.data.carts[c.ID] = c
		line.ID, line.Quantity = c.ID, c.Quantity
		return nil
	}
	line.ID = r.s.nextID()
	r.s.data.carts[line.ID] = *line
	return nil
}

func (r memCarts) ClearExpiredNegotiations(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.data.carts {
		if c.NegotiatedExpiresAt != nil && !c.NegotiatedExpiresAt.After(now) {
			c.NegotiatedPrice = decimal.NullDecimal{}
			c.NegotiatedExpiresAt = nil
			c.NegotiationID = nil
			r.s.data.carts[id] = c
			n++
		}
	}
	return n, nil
}

// negotiations

type memNegotiations struct{ s *memStore }

func (r memNegotiations) Create(ctx context.Context, n *domain.Negotiation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.nextID()
	r.s.data.negotiations[n.ID] = *n
	return nil
}

func (r memNegotiations) GetByID(ctx context.Context, id int32) (*domain.Negotiation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.data.negotiations[id]
	if !ok {
		return nil, apperror.NotFound("Negotiation not found")
	}
	return &n, nil
}

func (r memNegotiations) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Negotiation, error) {
	return r.GetByID(ctx, id)
}

func (r memNegotiations) UpdateStatus(ctx context.Context, id int32, status domain.NegotiationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.data.negotiations[id]
	if !ok {
		return apperror.NotFound("Negotiation not found")
	}
	n.Status = status
	r.s.data.negotiations[id] = n
	return nil
}

func (r memNegotiations) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Negotiation, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Negotiation
	for _, n := range sortedValues(r.s.data.negotiations, func(a, b domain.Negotiation) bool { return a.ID > b.ID }) {
		if n.BuyerID == buyerID {
			all = append(all, n)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

// orders

type memOrders struct{ s *memStore }

func (r memOrders) Create(ctx context.Context, o *domain.Order) error {
	if err := r.s.lock("Orders.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	o.ID = r.s.nextID()
	stored := *o
	stored.Lines = nil
	r.s.data.orders[o.ID] = stored
	return nil
}

func (r memOrders) CreateLine(ctx context.Context, l *domain.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.nextID()
	r.s.data.orderLines[l.ID] = *l
	return nil
}

func (r memOrders) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, apperror.NotFound("Order not found")
	}
	return &o, nil
}

func (r memOrders) ListLines(ctx context.Context, orderID int32) ([]domain.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.OrderLine
	for _, l := range sortedValues(r.s.data.orderLines, func(a, b domain.OrderLine) bool { return a.ID < b.ID }) {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memOrders) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Order
	for _, o := range sortedValues(r.s.data.orders, func(a, b domain.Order) bool { return a.ID > b.ID }) {
		if o.BuyerID == buyerID {
			all = append(all, o)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

func (r memOrders) UpdatePaymentState(ctx context.Context, id int32, status domain.OrderStatus, paid bool) error {
	if err := r.s.lock("Orders.UpdatePaymentState"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return apperror.NotFound("Order not found")
	}
	o.Status, o.DeliveryChargePaid = status, paid
	r.s.data.orders[id] = o
	return nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id int32, status domain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return apperror.NotFound("Order not found")
	}
	o.Status = status
	r.s.data.orders[id] = o
	return nil
}

func (r memOrders) ListPendingOnline(ctx context.Context, now time.Time) ([]domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Order
	for _, o := range sortedValues(r.s.data.orders, func(a, b domain.Order) bool { return a.ID < b.ID }) {
		if o.Status == domain.OrderStatusPending && o.PaymentMethod == domain.PaymentMethodOnline && o.PaymentDueAt.After(now) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r memOrders) ClaimPayment(ctx context.Context, id int32, now, staleBefore time.Time) (bool, error) {
	if err := r.s.lock("Orders.ClaimPayment"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok || o.Status != domain.OrderStatusPending || o.PaymentMethod != domain.PaymentMethodOnline {
		return false, nil
	}
	if at, held := r.s.data.paymentClaims[id]; held && !at.Before(staleBefore) {
		return false, nil
	}
	r.s.data.paymentClaims[id] = now
	return true, nil
}

func (r memOrders) ReleasePaymentClaim(ctx context.Context, id int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.data.orders[id]; ok && o.Status == domain.OrderStatusPending {
		delete(r.s.data.paymentClaims, id)
	}
	return nil
}

func (r memOrders) MarkPaid(ctx context.Context, id int32) (bool, error) {
	if err := r.s.lock("Orders.MarkPaid"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok || o.Status != domain.OrderStatusPending {
		return false, nil
	}
	o.Status, o.DeliveryChargePaid = domain.OrderStatusPaid, true
	r.s.data.orders[id] = o
	return true, nil
}

// deliveries

type memDeliveries struct{ s *memStore }

func (r memDeliveries) Create(ctx context.Context, d *domain.Delivery) error {
	if err := r.s.lock("Deliveries.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	d.ID = r.s.nextID()
	d.CreatedAt, d.UpdatedAt = testNow, testNow
	r.s.data.deliveries[d.ID] = *d
	return nil
}

func (r memDeliveries) withBuyer(d domain.Delivery) domain.Delivery {
	d.BuyerID = r.s.data.orders[d.OrderID].BuyerID
	return d
}

func (r memDeliveries) GetByID(ctx context.Context, id int32) (*domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.deliveries[id]
	if !ok {
		return nil, apperror.NotFound("Delivery not found")
	}
	d = r.withBuyer(d)
	return &d, nil
}

func (r memDeliveries) List(ctx context.Context, f domain.DeliveryFilter, page, pageSize int32) ([]domain.Delivery, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Delivery
	for _, d := range sortedValues(r.s.data.deliveries, func(a, b domain.Delivery) bool { return a.ID > b.ID }) {
		d = r.withBuyer(d)
		if (f.OrderID == 0 || d.OrderID == f.OrderID) && (f.BuyerID == 0 || d.BuyerID == f.BuyerID) {
			all = append(all, d)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

func (r memDeliveries) UpdateStatus(ctx context.Context, id int32, status domain.DeliveryStatus, trackingID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.deliveries[id]
	if !ok {
		return apperror.NotFound("Delivery not found")
	}
	d.Status = status
	if trackingID != nil {
		d.TrackingID = trackingID
	}
	r.s.data.deliveries[id] = d
	return nil
}

func (s *memStore) deliveriesOf(orderID int32) []domain.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Delivery
	for _, d := range sortedValues(s.data.deliveries, func(a, b domain.Delivery) bool { return a.ID < b.ID }) {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out
}

// rentals

type memRentals struct{ s *memStore }

func (r memRentals) Create(ctx context.Context, rt *domain.Rental) error {
	if err := r.s.lock("Rentals.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	rt.ID = r.s.nextID()
	r.s.data.rentals[rt.ID] = *rt
	return nil
}

func (r memRentals) detail(rt domain.Rental) domain.RentalDetail {
	line := r.s.data.orderLines[rt.OrderLineID]
	order := r.s.data.orders[line.OrderID]
	return domain.RentalDetail{
		Rental:    rt,
		OrderID:   line.OrderID,
		BuyerID:   order.BuyerID,
		ItemID:    line.ItemID,
		LinePrice: line.Price,
	}
}

func (r memRentals) GetDetailByID(ctx context.Context, id int32) (*domain.RentalDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.data.rentals[id]
	if !ok {
		return nil, apperror.NotFound("Rental not found")
	}
	d := r.detail(rt)
	return &d, nil
}

func (r memRentals) GetDetailByIDForUpdate(ctx context.Context, id int32) (*domain.RentalDetail, error) {
	return r.GetDetailByID(ctx, id)
}

func (r memRentals) Update(ctx context.Context, rt *domain.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.rentals[rt.ID]; !ok {
		return apperror.NotFound("Rental not found")
	}
	r.s.data.rentals[rt.ID] = *rt
	return nil
}

func (r memRentals) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.RentalDetail, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.RentalDetail
	for _, rt := range sortedValues(r.s.data.rentals, func(a, b domain.Rental) bool { return a.ID < b.ID }) {
		if d := r.detail(rt); d.BuyerID == buyerID {
			all = append(all, d)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

func (r memRentals) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.RentalDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.RentalDetail
	for _, rt := range sortedValues(r.s.data.rentals, func(a, b domain.Rental) bool { return a.RentalEnd.Before(b.RentalEnd) }) {
		if rt.ReturnStatus == domain.ReturnStatusPending && !rt.RentalEnd.Before(from) && rt.RentalEnd.Before(to) {
			out = append(out, r.detail(rt))
		}
	}
	return out, nil
}

// transactions

type memTransactions struct{ s *memStore }

func (r memTransactions) Create(ctx context.Context, t *domain.Transaction) error {
	if err := r.s.lock("Transactions.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	t.ID = r.s.nextID()
	r.s.data.txns[t.ID] = *t
	return nil
}

func (r memTransactions) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	all := r.s.ledgerOf(userID)
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

func (r memTransactions) List(ctx context.Context, f domain.TransactionFilter, page, pageSize int32) ([]domain.Transaction, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Transaction
	for _, t := range sortedValues(r.s.data.txns, func(a, b domain.Transaction) bool { return a.ID > b.ID }) {
		if (f.Type == "" || t.Type == f.Type) && (f.Status == "" || t.Status == f.Status) {
			all = append(all, t)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

func (r memTransactions) UpdateStatusByWithdrawal(ctx context.Context, withdrawalID int32, status domain.TransactionStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.data.txns {
		if t.WithdrawalID != nil && *t.WithdrawalID == withdrawalID && t.Type == domain.TransactionTypeWithdrawal {
			t.Status = status
			r.s.data.txns[id] = t
			return nil
		}
	}
	return apperror.NotFound("Transaction for withdrawal %d not found", withdrawalID)
}

func (r memTransactions) RevenueByType(ctx context.Context, txnType domain.TransactionType, from, to time.Time) ([]domain.RevenueLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	line := domain.RevenueLine{Type: txnType, Total: decimal.Zero}
	for _, t := range r.s.data.txns {
		if t.Type == txnType {
			line.Total = line.Total.Add(t.Amount)
			line.Count++
		}
	}
	if line.Count == 0 {
		return nil, nil
	}
	return []domain.RevenueLine{line}, nil
}

// withdrawals

type memWithdrawals struct{ s *memStore }

func (r memWithdrawals) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w.ID = r.s.nextID()
	r.s.data.withdrawals[w.ID] = *w
	return nil
}

func (r memWithdrawals) GetByIDForUpdate(ctx context.Context, id int32) (*domain.WithdrawalRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.withdrawals[id]
	if !ok {
		return nil, apperror.NotFound("Withdrawal request not found")
	}
	return &w, nil
}

func (r memWithdrawals) UpdateStatus(ctx context.Context, id int32, status domain.WithdrawalStatus, processedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.withdrawals[id]
	if !ok {
		return apperror.NotFound("Withdrawal request not found")
	}
	w.Status = status
	w.ProcessedAt = &processedAt
	r.s.data.withdrawals[id] = w
	return nil
}

func (r memWithdrawals) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.WithdrawalRequest
	for _, w := range sortedValues(r.s.data.withdrawals, func(a, b domain.WithdrawalRequest) bool { return a.ID > b.ID }) {
		if w.UserID == userID {
			all = append(all, w)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

func (r memWithdrawals) List(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.WithdrawalRequest
	for _, w := range sortedValues(r.s.data.withdrawals, func(a, b domain.WithdrawalRequest) bool { return a.ID > b.ID }) {
		if status == "" || w.Status == status {
			all = append(all, w)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

// notifications

type memNotifications struct{ s *memStore }

func (r memNotifications) Create(ctx context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.nextID()
	r.s.data.notifications[n.ID] = *n
	return nil
}

func (r memNotifications) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Notification
	for _, n := range sortedValues(r.s.data.notifications, func(a, b domain.Notification) bool { return a.ID > b.ID }) {
		if n.UserID == userID {
			all = append(all, n)
		}
	}
	out, total := pageOf(all, page, pageSize)
	return out, total, nil
}

func (r memNotifications) MarkAsRead(ctx context.Context, id, userID int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.data.notifications[id]
	if !ok || n.UserID != userID {
		return apperror.NotFound("Notification not found")
	}
	n.IsRead = true
	r.s.data.notifications[id] = n
	return nil
}

// admin configs

type memConfigs struct{ s *memStore }

func (r memConfigs) Get(ctx context.Context, key string) (*domain.AdminConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.configs[key]
	if !ok {
		return nil, apperror.NotFound("Config %s not found", key)
	}
	return &c, nil
}

func (r memConfigs) List(ctx context.Context) ([]domain.AdminConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.data.configs, func(a, b domain.AdminConfig) bool { return a.Key < b.Key }), nil
}

func (r memConfigs) Upsert(ctx context.Context, c *domain.AdminConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.configs[c.Key] = *c
	return nil
}
