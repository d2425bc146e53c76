package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kabb-server/internal/domain"
	"kabb-server/internal/infrastructure/gateway"
	"kabb-server/internal/repo"
)

// fakeTxRunner runs the unit of work directly; the in-memory repos below
// ignore the tx handle.
type fakeTxRunner struct {
	failNext bool
}

func (r *fakeTxRunner) InTx(ctx context.Context, fn func(tx repo.Tx) error) error {
	if r.failNext {
		r.failNext = false
		return context.DeadlineExceeded
	}
	return fn(nil)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) put(order *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.OrderNumber] = &cp
}

func (r *fakeOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderNumber]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.ID == id {
			cp := *order
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, tx repo.Tx, order *domain.Order) error {
	r.put(order)
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, tx repo.Tx, order *domain.Order) error {
	r.put(order)
	return nil
}

func (r *fakeOrderRepo) UpdateStatusIfPending(ctx context.Context, tx repo.Tx, order *domain.Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.orders[order.OrderNumber]
	if !ok || current.Status != domain.OrderPending {
		return false, nil
	}
	cp := *order
	r.orders[order.OrderNumber] = &cp
	return true, nil
}

func (r *fakeOrderRepo) FindStuckPending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, order := range r.orders {
		if order.Status == domain.OrderPending && time.Since(order.UpdatedAt) > olderThan {
			out = append(out, *order)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{}
}

func (r *fakePaymentRepo) Create(ctx context.Context, tx repo.Tx, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *fakePaymentRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].OrderID == orderID {
			cp := *r.payments[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.PaymentNumber == paymentNumber {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

// fakeGateway answers with a scripted result and counts calls.
type fakeGateway struct {
	mu      sync.Mutex
	result  *gateway.ConfirmResult
	err     error
	delay   time.Duration
	calls   int
	lookups int
}

func (g *fakeGateway) Confirm(ctx context.Context, paymentKey, orderNumber string, amount decimal.Decimal) (*gateway.ConfirmResult, error) {
	g.mu.Lock()
	g.calls++
	result, err, delay := g.result, g.err, g.delay
	g.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	cp := *result
	return &cp, nil
}

func (g *fakeGateway) Lookup(ctx context.Context, orderNumber string) (*gateway.ConfirmResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups++
	if g.err != nil {
		return nil, g.err
	}
	if g.result == nil {
		return nil, nil
	}
	cp := *g.result
	return &cp, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recordedAudit struct {
	action       domain.AuditActionType
	resourceType string
	actorID      uuid.UUID
	subjectID    uuid.UUID
	description  string
}

type fakeAudit struct {
	mu      sync.Mutex
	records []recordedAudit
}

func (a *fakeAudit) Record(ctx context.Context, action domain.AuditActionType, resourceType string,
	resourceID, actorID, subjectID uuid.UUID, description string, meta domain.RequestMeta) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, recordedAudit{
		action:       action,
		resourceType: resourceType,
		actorID:      actorID,
		subjectID:    subjectID,
		description:  description,
	})
}

func (a *fakeAudit) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) put(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := r.FindByEmail(ctx, email)
	return user != nil, err
}

func (r *fakeUserRepo) Create(ctx context.Context, tx repo.Tx, user *domain.User) error {
	r.put(user)
	return nil
}

func (r *fakeUserRepo) UpdateApprovalStatus(ctx context.Context, tx repo.Tx, user *domain.User) error {
	r.put(user)
	return nil
}

type fakeLicenseRepo struct {
	mu       sync.Mutex
	licenses map[uuid.UUID]*domain.License
}

func newFakeLicenseRepo() *fakeLicenseRepo {
	return &fakeLicenseRepo{licenses: make(map[uuid.UUID]*domain.License)}
}

func (r *fakeLicenseRepo) put(license *domain.License) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *license
	r.licenses[license.ID] = &cp
}

func (r *fakeLicenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	license, ok := r.licenses[id]
	if !ok {
		return nil, nil
	}
	cp := *license
	return &cp, nil
}

func (r *fakeLicenseRepo) FindByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.License
	for _, license := range r.licenses {
		if license.ApprovalStatus == status {
			out = append(out, *license)
		}
	}
	return out, nil
}

func (r *fakeLicenseRepo) Create(ctx context.Context, tx repo.Tx, license *domain.License) error {
	r.put(license)
	return nil
}

func (r *fakeLicenseRepo) UpdateDecision(ctx context.Context, tx repo.Tx, license *domain.License) error {
	r.put(license)
	return nil
}
