package chart

// CreateGroupRequest carries the fields needed to create a group.
type CreateGroupRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	ParentID   *int64 `json:"parent_id,omitempty"`
}

// UpdateGroupRequest carries the editable fields of a group. Nil fields are
// left unchanged; ReparentToRoot moves the group to the top level.
type UpdateGroupRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=100"`
	CategoryID     *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	ParentID       *int64  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	ReparentToRoot bool    `json:"reparent_to_root,omitempty"`
}
