package chart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifinance-app/ifinance/internal/shared"
)

type mockRepository struct {
	categories map[int64]AccountCategory
	groups     map[int64]Group
	nextID     int64
	accountsIn map[int64]bool
}

func newMockRepository() *mockRepository {
	m := &mockRepository{
		categories: make(map[int64]AccountCategory),
		groups:     make(map[int64]Group),
		accountsIn: make(map[int64]bool),
		nextID:     1,
	}
	for i, c := range []AccountCategory{
		{Name: "Assets", Type: CategoryTypeAsset},
		{Name: "Liabilities", Type: CategoryTypeLiability},
		{Name: "Income", Type: CategoryTypeIncome},
		{Name: "Expenses", Type: CategoryTypeExpense},
		{Name: "Equity", Type: CategoryTypeEquity},
	} {
		c.ID = int64(i + 1)
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockRepository) ListCategories(ctx context.Context) ([]AccountCategory, error) {
	out := make([]AccountCategory, 0, len(m.categories))
	for i := int64(1); i <= int64(len(m.categories)); i++ {
		out = append(out, m.categories[i])
	}
	return out, nil
}

func (m *mockRepository) GetCategory(ctx context.Context, id int64) (AccountCategory, error) {
	c, ok := m.categories[id]
	if !ok {
		return AccountCategory{}, shared.ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) GetGroup(ctx context.Context, id int64) (Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return Group{}, shared.ErrNotFound
	}
	return g, nil
}

func (m *mockRepository) ListGroups(ctx context.Context, ownerID int64) ([]Group, error) {
	var out []Group
	for i := int64(1); i < m.nextID; i++ {
		if g, ok := m.groups[i]; ok && g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockRepository) InsertGroup(ctx context.Context, g Group) (Group, error) {
	g.ID = m.nextID
	m.nextID++
	if g.ParentID != nil {
		// Snapshot the value so the stored row does not alias the caller's
		// pointer, matching what a real repository would persist.
		pid := *g.ParentID
		g.ParentID = &pid
	}
	m.groups[g.ID] = g
	return g, nil
}

func (m *mockRepository) UpdateGroup(ctx context.Context, g Group) error {
	if _, ok := m.groups[g.ID]; !ok {
		return shared.ErrNotFound
	}
	m.groups[g.ID] = g
	return nil
}

func (m *mockRepository) DeleteGroup(ctx context.Context, id int64) error {
	if _, ok := m.groups[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.groups, id)
	return nil
}

func (m *mockRepository) HasChildGroups(ctx context.Context, groupID int64) (bool, error) {
	for _, g := range m.groups {
		if g.ParentID != nil && *g.ParentID == groupID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) HasAccounts(ctx context.Context, groupID int64) (bool, error) {
	return m.accountsIn[groupID], nil
}

func mustCreate(t *testing.T, svc *Service, owner int64, name string, categoryID int64, parentID *int64) Group {
	t.Helper()
	g, err := svc.CreateGroup(context.Background(), owner, CreateGroupRequest{
		Name:       name,
		CategoryID: categoryID,
		ParentID:   parentID,
	})
	require.NoError(t, err)
	return g
}

func TestCreateGroupBatchesValidationFailures(t *testing.T) {
	svc := NewService(newMockRepository())
	missingParent := int64(99)

	_, err := svc.CreateGroup(context.Background(), 1, CreateGroupRequest{
		Name:       "Savings",
		CategoryID: 42,
		ParentID:   &missingParent,
	})

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Contains(t, ve.Fields, "category_id")
	assert.Contains(t, ve.Fields, "parent_id")
}

func TestCreateGroupRejectsForeignParent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	other := mustCreate(t, svc, 2, "Other Owner Root", 1, nil)

	_, err := svc.CreateGroup(context.Background(), 1, CreateGroupRequest{
		Name:       "Savings",
		CategoryID: 1,
		ParentID:   &other.ID,
	})

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "parent_id")
}

func TestUpdateGroupRejectsDescendantParent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	root := mustCreate(t, svc, 1, "Root", 1, nil)
	child := mustCreate(t, svc, 1, "Child", 1, &root.ID)
	grandchild := mustCreate(t, svc, 1, "Grandchild", 1, &child.ID)

	_, err := svc.UpdateGroup(context.Background(), 1, root.ID, UpdateGroupRequest{
		ParentID: &grandchild.ID,
	})

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok, "reparenting under a descendant must fail, got %v", err)
	assert.Contains(t, ve.Fields, "parent_id")

	// The stored row must be untouched.
	stored, getErr := repo.GetGroup(context.Background(), root.ID)
	require.NoError(t, getErr)
	assert.Nil(t, stored.ParentID)
}

func TestUpdateGroupRejectsSelfParent(t *testing.T) {
	svc := NewService(newMockRepository())
	root := mustCreate(t, svc, 1, "Root", 1, nil)

	_, err := svc.UpdateGroup(context.Background(), 1, root.ID, UpdateGroupRequest{ParentID: &root.ID})

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "parent_id")
}

func TestUpdateGroupAllowsReparentToRoot(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	root := mustCreate(t, svc, 1, "Root", 1, nil)
	child := mustCreate(t, svc, 1, "Child", 1, &root.ID)

	updated, err := svc.UpdateGroup(context.Background(), 1, child.ID, UpdateGroupRequest{ReparentToRoot: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
}

func TestDeleteGroupGuards(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	root := mustCreate(t, svc, 1, "Root", 1, nil)
	child := mustCreate(t, svc, 1, "Child", 1, &root.ID)

	err := svc.DeleteGroup(context.Background(), 1, root.ID)
	assert.ErrorIs(t, err, shared.ErrConflict, "group with children must not delete")
	_, getErr := repo.GetGroup(context.Background(), root.ID)
	assert.NoError(t, getErr, "guarded delete must leave the row in place")

	repo.accountsIn[child.ID] = true
	err = svc.DeleteGroup(context.Background(), 1, child.ID)
	assert.ErrorIs(t, err, shared.ErrConflict, "group with accounts must not delete")

	repo.accountsIn[child.ID] = false
	require.NoError(t, svc.DeleteGroup(context.Background(), 1, child.ID))
	require.NoError(t, svc.DeleteGroup(context.Background(), 1, root.ID))
}

func TestDeleteGroupOwnership(t *testing.T) {
	svc := NewService(newMockRepository())
	root := mustCreate(t, svc, 1, "Root", 1, nil)

	assert.ErrorIs(t, svc.DeleteGroup(context.Background(), 2, root.ID), shared.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteGroup(context.Background(), 1, 999), shared.ErrNotFound)
}

func TestListTreePartitionsOnParentID(t *testing.T) {
	svc := NewService(newMockRepository())
	rootB := mustCreate(t, svc, 1, "B Root", 1, nil)
	rootA := mustCreate(t, svc, 1, "A Root", 3, nil)
	child := mustCreate(t, svc, 1, "Child", 1, &rootB.ID)
	mustCreate(t, svc, 2, "Other Owner", 1, nil)

	roots, err := svc.ListTree(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	// Insertion order among siblings.
	assert.Equal(t, rootB.ID, roots[0].ID)
	assert.Equal(t, rootA.ID, roots[1].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, child.ID, roots[0].Children[0].ID)
	assert.Empty(t, roots[1].Children)
	assert.Equal(t, "Assets", roots[0].CategoryName)
	assert.Equal(t, "Income", roots[1].CategoryName)

	sorted, err := svc.ListTree(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, rootA.ID, sorted[0].ID, "sort=name orders siblings alphabetically")
}

func TestAncestorWalkTerminates(t *testing.T) {
	svc := NewService(newMockRepository())
	parent := mustCreate(t, svc, 1, "G0", 1, nil)
	for i := 0; i < 25; i++ {
		parent = mustCreate(t, svc, 1, "G", 1, &parent.ID)
	}

	roots, err := svc.ListTree(context.Background(), 1, false)
	require.NoError(t, err)
	depth := 0
	for node := roots[0]; node != nil; {
		depth++
		if len(node.Children) == 0 {
			node = nil
		} else {
			node = node.Children[0]
		}
	}
	assert.Equal(t, 26, depth)
}
