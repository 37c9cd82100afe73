package chart

import "time"

// CategoryType classifies a category for report logic.
type CategoryType string

const (
	CategoryTypeAsset     CategoryType = "ASSET"
	CategoryTypeLiability CategoryType = "LIABILITY"
	CategoryTypeIncome    CategoryType = "INCOME"
	CategoryTypeExpense   CategoryType = "EXPENSE"
	CategoryTypeEquity    CategoryType = "EQUITY"
)

// AccountCategory is the immutable classification vocabulary referenced by
// groups. Rows are seeded once and owned by the system, not a user.
type AccountCategory struct {
	ID   int64
	Name string
	Type CategoryType
}

// Group is a user-defined node in the chart-of-accounts tree. Groups form a
// forest per owner: parent_id is nullable, the parent must belong to the same
// owner, and the parent relation stays acyclic.
type Group struct {
	ID         int64
	Name       string
	CategoryID int64
	ParentID   *int64
	OwnerID    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TreeNode is a group plus its resolved children, as returned by ListTree.
type TreeNode struct {
	Group
	CategoryName string
	Children     []*TreeNode
}
