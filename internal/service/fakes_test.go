package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vibe-gaming/signup/internal/domain"

	"github.com/google/uuid"
)

type memoryAccounts struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]domain.Account
	createErr error
	findErr   error
	deleteErr error
	// skipPreCheck hides rows from FindByEmailOrUsername once, like a concurrent insert would.
	skipPreCheck bool
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{rows: make(map[uuid.UUID]domain.Account)}
}

func (m *memoryAccounts) FindByEmailOrUsername(_ context.Context, email string, username string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return nil, m.findErr
	}

	if m.skipPreCheck {
		m.skipPreCheck = false
		return nil, domain.ErrNotFound
	}

	var byUsername *domain.Account
	for _, row := range m.rows {
		row := row
		if row.Email == email {
			return &row, nil
		}
		if strings.EqualFold(row.Username, username) {
			byUsername = &row
		}
	}

	if byUsername != nil {
		return byUsername, nil
	}

	return nil, domain.ErrNotFound
}

func (m *memoryAccounts) CreateProvisional(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}

	for _, row := range m.rows {
		if row.Email == account.Email || strings.EqualFold(row.Username, account.Username) {
			return fmt.Errorf("insert account: %w", domain.ErrDuplicateEntry)
		}
	}

	m.rows[account.ID] = *account

	return nil
}

func (m *memoryAccounts) FindUnverifiedByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if row.Email == email && !row.IsVerified {
			row := row
			return &row, nil
		}
	}

	return nil, domain.ErrNotFound
}

func (m *memoryAccounts) Promote(_ context.Context, account *domain.Account, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[account.ID]
	if !ok || row.IsVerified {
		return domain.ErrNoRowsAffected
	}

	row.Password = passwordHash
	row.IsVerified = true
	m.rows[account.ID] = row

	account.Password = passwordHash
	account.IsVerified = true

	return nil
}

func (m *memoryAccounts) Delete(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}

	if row, ok := m.rows[account.ID]; ok && !row.IsVerified {
		delete(m.rows, account.ID)
	}

	return nil
}

func (m *memoryAccounts) byEmail(email string) (domain.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if row.Email == email {
			return row, true
		}
	}

	return domain.Account{}, false
}

type memoryRecords struct {
	mu   sync.Mutex
	rows map[string]domain.VerificationRecord
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{rows: make(map[string]domain.VerificationRecord)}
}

func (m *memoryRecords) Replace(_ context.Context, record *domain.VerificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows[record.Email] = *record

	return nil
}

func (m *memoryRecords) Find(_ context.Context, email string, code string) (*domain.VerificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[email]
	if !ok || row.Code != code {
		return nil, domain.ErrNotFound
	}

	return &row, nil
}

func (m *memoryRecords) Delete(_ context.Context, record *domain.VerificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row, ok := m.rows[record.Email]; ok && row.ID == record.ID {
		delete(m.rows, record.Email)
	}

	return nil
}

func (m *memoryRecords) get(email string) (domain.VerificationRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[email]

	return row, ok
}

// sequenceGenerator hands out 1000, 1001, ... so tests know every issued code.
type sequenceGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceGenerator) RandomCode(length int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := fmt.Sprintf("%0*d", length, 1000+g.next)
	g.next++

	return code, nil
}

type welcomeCall struct {
	email    string
	username string
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []welcomeCall
	err   error
}

func (p *fakePublisher) EnqueueWelcomeEmail(_ context.Context, email string, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, welcomeCall{email: email, username: username})

	return p.err
}
