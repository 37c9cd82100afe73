package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifinance-app/ifinance/internal/shared"
)

type mockRepository struct {
	accounts    map[int64]MasterAccount
	groupOwners map[int64]int64
	linesFor    map[int64]bool
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts:    make(map[int64]MasterAccount),
		groupOwners: make(map[int64]int64),
		linesFor:    make(map[int64]bool),
		nextID:      1,
	}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (MasterAccount, error) {
	a, ok := m.accounts[id]
	if !ok {
		return MasterAccount{}, shared.ErrNotFound
	}
	return a, nil
}

func (m *mockRepository) List(ctx context.Context, ownerID int64) ([]MasterAccount, error) {
	var out []MasterAccount
	for i := int64(1); i < m.nextID; i++ {
		if a, ok := m.accounts[i]; ok && a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepository) Insert(ctx context.Context, a MasterAccount) (MasterAccount, error) {
	a.ID = m.nextID
	m.nextID++
	m.accounts[a.ID] = a
	return a, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.accounts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *mockRepository) HasTransactionLines(ctx context.Context, accountID int64) (bool, error) {
	return m.linesFor[accountID], nil
}

func (m *mockRepository) GetGroupOwner(ctx context.Context, groupID int64) (int64, error) {
	owner, ok := m.groupOwners[groupID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return owner, nil
}

func TestCreateInitializesClosingFromOpening(t *testing.T) {
	repo := newMockRepository()
	repo.groupOwners[10] = 1
	svc := NewService(repo)

	account, err := svc.Create(context.Background(), 1, CreateAccountRequest{
		Name:          "Cash",
		GroupID:       10,
		OpeningAmount: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, account.OpeningAmount)
	assert.Equal(t, 1000.0, account.ClosingAmount)
	assert.Equal(t, int64(1), account.OwnerID)
}

func TestCreateRejectsForeignGroup(t *testing.T) {
	repo := newMockRepository()
	repo.groupOwners[10] = 2
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 1, CreateAccountRequest{Name: "Cash", GroupID: 10})
	ve, ok := shared.AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Contains(t, ve.Fields, "group_id")

	// The legacy compatibility flag allows the divergent ownership.
	svc = NewService(repo).WithCrossOwnerGroups(true)
	account, err := svc.Create(context.Background(), 1, CreateAccountRequest{Name: "Cash", GroupID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.OwnerID)
}

func TestCreateRejectsMissingGroup(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), 1, CreateAccountRequest{Name: "Cash", GroupID: 77})
	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "group_id")
}

func TestDeleteGuardedByTransactionLines(t *testing.T) {
	repo := newMockRepository()
	repo.groupOwners[10] = 1
	svc := NewService(repo)
	account, err := svc.Create(context.Background(), 1, CreateAccountRequest{Name: "Cash", GroupID: 10})
	require.NoError(t, err)

	repo.linesFor[account.ID] = true
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, account.ID), shared.ErrConflict)
	_, getErr := repo.Get(context.Background(), account.ID)
	assert.NoError(t, getErr, "guarded delete must leave the row in place")

	repo.linesFor[account.ID] = false
	require.NoError(t, svc.Delete(context.Background(), 1, account.ID))
}

func TestGetBalanceAndOwnership(t *testing.T) {
	repo := newMockRepository()
	repo.groupOwners[10] = 1
	svc := NewService(repo)
	account, err := svc.Create(context.Background(), 1, CreateAccountRequest{
		Name:          "Cash",
		GroupID:       10,
		OpeningAmount: 250,
	})
	require.NoError(t, err)

	balance, err := svc.GetBalance(context.Background(), 1, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, balance)

	_, err = svc.GetBalance(context.Background(), 2, account.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
