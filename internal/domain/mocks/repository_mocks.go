package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
)

// MockUserRepository is an in-memory implementation of domain.UserRepository
// for testing.
type MockUserRepository struct {
	mu        sync.Mutex
	Users     map[uuid.UUID]*domain.User
	CreateErr error
	FindErr   error
	UpdateErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[uuid.UUID]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, existing := range m.Users {
		if existing.Email == u.Email {
			return domain.ErrValidation
		}
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, u := range m.Users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	users := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (m *MockUserRepository) UpdatePermissions(ctx context.Context, id uuid.UUID, perms []domain.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	u, ok := m.Users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Permissions = append([]domain.Permission(nil), perms...)
	return nil
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	u, ok := m.Users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResetToken = token
	u.ResetExpiry = &expiry
	return nil
}

func (m *MockUserRepository) RedeemResetToken(ctx context.Context, token string, newHash string, now time.Time) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for _, u := range m.Users {
		if u.ResetToken == token && token != "" && u.ResetExpiry != nil && !u.ResetExpiry.Before(now) {
			u.PasswordHash = newHash
			u.ResetToken = ""
			u.ResetExpiry = nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MockItemRepository is an in-memory implementation of domain.ItemRepository
// for testing.
type MockItemRepository struct {
	mu         sync.Mutex
	Items      map[uuid.UUID]*domain.Item
	DeletedIDs []uuid.UUID
	CreateErr  error
	FindErr    error
	UpdateErr  error
	DeleteErr  error
}

func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{Items: make(map[uuid.UUID]*domain.Item)}
}

func (m *MockItemRepository) Create(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *item
	m.Items[item.ID] = &cp
	return nil
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *MockItemRepository) List(ctx context.Context, limit, offset int) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	items := make([]*domain.Item, 0, len(m.Items))
	for _, item := range m.Items {
		cp := *item
		items = append(items, &cp)
	}
	return items, nil
}

func (m *MockItemRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Image != nil {
		item.Image = *patch.Image
	}
	if patch.LargeImage != nil {
		item.LargeImage = *patch.LargeImage
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	cp := *item
	return &cp, nil
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Items, id)
	m.DeletedIDs = append(m.DeletedIDs, id)
	return nil
}

// MockCartRepository is an in-memory implementation of domain.CartRepository
// for testing. LinesResult, when set, overrides the derived cart contents.
type MockCartRepository struct {
	mu          sync.Mutex
	Rows        map[uuid.UUID]*domain.CartItem
	LinesResult []*domain.CartLine
	DeletedIDs  []uuid.UUID
	UpsertErr   error
	FindErr     error
	DeleteErr   error
	LinesErr    error
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{Rows: make(map[uuid.UUID]*domain.CartItem)}
}

func (m *MockCartRepository) Upsert(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}
	for _, row := range m.Rows {
		if row.UserID == userID && row.ItemID == itemID {
			row.Quantity++
			cp := *row
			return &cp, nil
		}
	}
	row := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ItemID:    itemID,
		Quantity:  1,
		CreatedAt: time.Now().UTC(),
	}
	m.Rows[row.ID] = row
	cp := *row
	return &cp, nil
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	row, ok := m.Rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Rows, id)
	m.DeletedIDs = append(m.DeletedIDs, id)
	return nil
}

func (m *MockCartRepository) LinesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LinesErr != nil {
		return nil, m.LinesErr
	}
	if m.LinesResult != nil {
		return m.LinesResult, nil
	}
	var lines []*domain.CartLine
	for _, row := range m.Rows {
		if row.UserID == userID {
			lines = append(lines, &domain.CartLine{CartItem: *row})
		}
	}
	return lines, nil
}

// MockOrderRepository is an in-memory implementation of domain.OrderRepository
// for testing.
type MockOrderRepository struct {
	mu             sync.Mutex
	Orders         map[uuid.UUID]*domain.Order
	CleanedCartIDs []uuid.UUID
	CreateErr      error
	FindErr        error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{Orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *MockOrderRepository) CreateWithCartCleanup(ctx context.Context, order *domain.Order, cartItemIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *order
	m.Orders[order.ID] = &cp
	m.CleanedCartIDs = append(m.CleanedCartIDs, cartItemIDs...)
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	order, ok := m.Orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var orders []*domain.Order
	for _, order := range m.Orders {
		if order.UserID == userID {
			cp := *order
			orders = append(orders, &cp)
		}
	}
	return orders, nil
}

// MockPaymentGateway records charge requests and returns a canned result.
type MockPaymentGateway struct {
	mu       sync.Mutex
	Requests []domain.ChargeRequest
	Result   *domain.ChargeResult
	Err      error
}

func (m *MockPaymentGateway) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		cp := *m.Result
		return &cp, nil
	}
	return &domain.ChargeResult{ChargeID: "ch_mock", Amount: req.Amount}, nil
}

// SentMail is a single message recorded by MockMailer.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records sent mail.
type MockMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// SentCount returns the number of messages recorded so far. Safe for use
// while a fire-and-forget send may still be in flight.
func (m *MockMailer) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
