package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ifinance-app/ifinance/internal/shared"
)

type provisionedGroup struct {
	name       string
	categoryID int64
	ownerID    int64
}

type provisionedAccount struct {
	name    string
	groupID int64
	ownerID int64
	opening float64
}

type mockUserRepo struct {
	admins     map[int64]*Administrator
	users      map[int64]*User
	categories map[int64]string
	groups     map[int64]provisionedGroup
	accounts   map[int64]provisionedAccount
	nextID     int64

	failAccountInsert error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		admins:     make(map[int64]*Administrator),
		users:      make(map[int64]*User),
		categories: map[int64]string{1: "Assets", 2: "Liabilities", 3: "Income", 4: "Expenses", 5: "Equity"},
		groups:     make(map[int64]provisionedGroup),
		accounts:   make(map[int64]provisionedAccount),
		nextID:     1,
	}
}

func (m *mockUserRepo) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *mockUserRepo) ListAdministrators(context.Context) ([]Administrator, error) {
	out := make([]Administrator, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockUserRepo) InsertAdministrator(_ context.Context, admin *Administrator) error {
	admin.ID = m.id()
	m.admins[admin.ID] = admin
	return nil
}

func (m *mockUserRepo) DeleteAdministrator(_ context.Context, id int64) error {
	if _, ok := m.admins[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.admins, id)
	return nil
}

func (m *mockUserRepo) HasAssignedUsers(_ context.Context, adminID int64) (bool, error) {
	for _, u := range m.users {
		if u.AdministratorID == adminID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ListUsers(context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) CategoryName(_ context.Context, id int64) (string, error) {
	name, ok := m.categories[id]
	if !ok {
		return "", shared.ErrNotFound
	}
	return name, nil
}

func (m *mockUserRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	staged := &stagedTx{repo: m}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	staged.commit()
	return nil
}

// stagedTx buffers writes until the closure succeeds so a failed provisioning
// leaves no partial rows behind.
type stagedTx struct {
	repo     *mockUserRepo
	users    []*User
	groups   map[int64]provisionedGroup
	accounts map[int64]provisionedAccount
}

func (t *stagedTx) InsertUser(_ context.Context, user *User) error {
	user.ID = t.repo.id()
	t.users = append(t.users, user)
	return nil
}

func (t *stagedTx) InsertGroup(_ context.Context, name string, categoryID, ownerID int64) (int64, error) {
	id := t.repo.id()
	if t.groups == nil {
		t.groups = make(map[int64]provisionedGroup)
	}
	t.groups[id] = provisionedGroup{name: name, categoryID: categoryID, ownerID: ownerID}
	return id, nil
}

func (t *stagedTx) InsertAccount(_ context.Context, name string, groupID, ownerID int64, opening float64) (int64, error) {
	if err := t.repo.failAccountInsert; err != nil {
		return 0, err
	}
	id := t.repo.id()
	if t.accounts == nil {
		t.accounts = make(map[int64]provisionedAccount)
	}
	t.accounts[id] = provisionedAccount{name: name, groupID: groupID, ownerID: ownerID, opening: opening}
	return id, nil
}

func (t *stagedTx) commit() {
	for _, u := range t.users {
		t.repo.users[u.ID] = u
	}
	for id, g := range t.groups {
		t.repo.groups[id] = g
	}
	for id, a := range t.accounts {
		t.repo.accounts[id] = a
	}
}

func ptrI64(v int64) *int64     { return &v }
func ptrF64(v float64) *float64 { return &v }

func validUserRequest() CreateUserRequest {
	return CreateUserRequest{
		Name:     "Dana",
		Username: "dana",
		Password: "correct-horse",
		Email:    "dana@example.com",
	}
}

func TestCreateUserProvisionsGroupAndAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	req := validUserRequest()
	req.InitialCategoryID = ptrI64(1)
	req.OpeningAmount = ptrF64(1000)

	user, err := svc.CreateUser(context.Background(), 9, req)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.AdministratorID)

	require.Len(t, repo.groups, 1)
	for _, g := range repo.groups {
		assert.Equal(t, "Dana's Assets Group", g.name)
		assert.Equal(t, int64(1), g.categoryID)
		assert.Equal(t, user.ID, g.ownerID)
	}
	require.Len(t, repo.accounts, 1)
	for _, a := range repo.accounts {
		assert.Equal(t, "Opening Balance", a.name)
		assert.Equal(t, 1000.0, a.opening)
		assert.Equal(t, user.ID, a.ownerID)
	}
}

func TestCreateUserWithoutSeedSkipsProvisioning(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	user, err := svc.CreateUser(context.Background(), 9, validUserRequest())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Empty(t, repo.groups)
	assert.Empty(t, repo.accounts)
}

func TestCreateUserRejectsHalfSeedRequest(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	req := validUserRequest()
	req.OpeningAmount = ptrF64(500)

	_, err := svc.CreateUser(context.Background(), 9, req)
	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "initial_category_id")
	assert.Empty(t, repo.users)
}

func TestCreateUserRejectsUnknownCategory(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	req := validUserRequest()
	req.InitialCategoryID = ptrI64(99)
	req.OpeningAmount = ptrF64(500)

	_, err := svc.CreateUser(context.Background(), 9, req)
	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "initial_category_id")
}

func TestCreateUserRollsBackWhenAccountInsertFails(t *testing.T) {
	repo := newMockUserRepo()
	repo.failAccountInsert = errors.New("disk full")
	svc := NewService(repo)

	req := validUserRequest()
	req.InitialCategoryID = ptrI64(4)
	req.OpeningAmount = ptrF64(250)

	_, err := svc.CreateUser(context.Background(), 9, req)
	require.Error(t, err)
	assert.Empty(t, repo.users)
	assert.Empty(t, repo.groups)
	assert.Empty(t, repo.accounts)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	user, err := svc.CreateUser(context.Background(), 9, validUserRequest())
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestDeleteAdministratorGuardedByAssignedUsers(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	admin, err := svc.CreateAdministrator(context.Background(), CreateAdministratorRequest{
		Name: "Root", Username: "root", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), admin.ID, validUserRequest())
	require.NoError(t, err)

	err = svc.DeleteAdministrator(context.Background(), admin.ID)
	assert.ErrorIs(t, err, shared.ErrConflict)

	for id := range repo.users {
		delete(repo.users, id)
	}
	require.NoError(t, svc.DeleteAdministrator(context.Background(), admin.ID))
}
