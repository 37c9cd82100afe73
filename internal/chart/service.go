package chart

import (
	"context"
	"errors"
	"sort"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// Service implements the chart-of-accounts tree operations: group CRUD with
// ownership checks, cycle prevention on reparent, and deletion guards.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListCategories(ctx context.Context) ([]AccountCategory, error) {
	return s.repo.ListCategories(ctx)
}

// CreateGroup validates the category and the optional parent (which must be
// owned by the caller) before inserting. Validation failures are batched.
func (s *Service) CreateGroup(ctx context.Context, ownerID int64, req CreateGroupRequest) (Group, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return Group{}, err
	}
	ve := shared.NewValidationError()
	if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			ve.Add("category_id", "unknown category")
		} else {
			return Group{}, err
		}
	}
	if req.ParentID != nil {
		parent, err := s.repo.GetGroup(ctx, *req.ParentID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			ve.Add("parent_id", "parent group does not exist")
		case err != nil:
			return Group{}, err
		case parent.OwnerID != ownerID:
			ve.Add("parent_id", "parent group belongs to another user")
		}
	}
	if err := ve.ErrOrNil(); err != nil {
		return Group{}, err
	}
	return s.repo.InsertGroup(ctx, Group{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		ParentID:   req.ParentID,
		OwnerID:    ownerID,
	})
}

// UpdateGroup applies edits to an owned group. Reparenting is rejected when
// the proposed parent is the group itself or any of its descendants, which
// keeps the parent relation acyclic.
func (s *Service) UpdateGroup(ctx context.Context, ownerID, groupID int64, req UpdateGroupRequest) (Group, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return Group{}, err
	}
	group, err := s.getOwned(ctx, ownerID, groupID)
	if err != nil {
		return Group{}, err
	}

	ve := shared.NewValidationError()
	if req.Name != nil {
		if *req.Name == "" {
			ve.Add("name", "is required")
		} else {
			group.Name = *req.Name
		}
	}
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				ve.Add("category_id", "unknown category")
			} else {
				return Group{}, err
			}
		} else {
			group.CategoryID = *req.CategoryID
		}
	}
	switch {
	case req.ReparentToRoot:
		group.ParentID = nil
	case req.ParentID != nil:
		if err := s.checkReparent(ctx, ownerID, groupID, *req.ParentID, ve); err != nil {
			return Group{}, err
		}
		if !ve.HasErrors() {
			group.ParentID = req.ParentID
		}
	}
	if err := ve.ErrOrNil(); err != nil {
		return Group{}, err
	}
	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return Group{}, err
	}
	return group, nil
}

// checkReparent walks the ancestor chain of the proposed parent; if the walk
// reaches the edited group the reparent would close a cycle.
func (s *Service) checkReparent(ctx context.Context, ownerID, groupID, parentID int64, ve *shared.ValidationError) error {
	if parentID == groupID {
		ve.Add("parent_id", "group cannot be its own parent")
		return nil
	}
	groups, err := s.repo.ListGroups(ctx, ownerID)
	if err != nil {
		return err
	}
	byID := make(map[int64]Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	if _, ok := byID[parentID]; !ok {
		ve.Add("parent_id", "parent group does not exist")
		return nil
	}
	// The chain terminates within len(groups) steps for any acyclic forest.
	current := parentID
	for range groups {
		node, ok := byID[current]
		if !ok || node.ParentID == nil {
			return nil
		}
		if *node.ParentID == groupID {
			ve.Add("parent_id", "parent group is a descendant of this group")
			return nil
		}
		current = *node.ParentID
	}
	return nil
}

// DeleteGroup removes an owned group unless child groups or accounts still
// hang off it.
func (s *Service) DeleteGroup(ctx context.Context, ownerID, groupID int64) error {
	if _, err := s.getOwned(ctx, ownerID, groupID); err != nil {
		return err
	}
	hasChildren, err := s.repo.HasChildGroups(ctx, groupID)
	if err != nil {
		return err
	}
	hasAccounts, err := s.repo.HasAccounts(ctx, groupID)
	if err != nil {
		return err
	}
	if hasChildren || hasAccounts {
		return shared.ErrConflict
	}
	return s.repo.DeleteGroup(ctx, groupID)
}

// ListTree builds the owner's forest in a single pass: partition the flat
// group rows on parent id, then collect the nil-keyed bucket as roots.
// Sibling order is insertion order unless sortByName is set.
func (s *Service) ListTree(ctx context.Context, ownerID int64, sortByName bool) ([]*TreeNode, error) {
	groups, err := s.repo.ListGroups(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	nodes := make(map[int64]*TreeNode, len(groups))
	childrenOf := make(map[int64][]*TreeNode)
	var roots []*TreeNode
	for _, g := range groups {
		nodes[g.ID] = &TreeNode{Group: g, CategoryName: categoryNames[g.CategoryID]}
	}
	for _, g := range groups {
		node := nodes[g.ID]
		if g.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		childrenOf[*g.ParentID] = append(childrenOf[*g.ParentID], node)
	}
	for id, children := range childrenOf {
		if parent, ok := nodes[id]; ok {
			parent.Children = children
		}
	}
	if sortByName {
		sortTree(roots)
	}
	return roots, nil
}

func sortTree(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

func (s *Service) getOwned(ctx context.Context, ownerID, groupID int64) (Group, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return Group{}, err
	}
	if group.OwnerID != ownerID {
		return Group{}, shared.ErrForbidden
	}
	return group, nil
}
