package request

// CreateUserRequest provisions a staff account
type CreateUserRequest struct {
	FirstName string   `json:"first_name" binding:"required,min=2,max=255"`
	LastName  string   `json:"last_name" binding:"max=255"`
	Email     string   `json:"email" binding:"required,email"`
	Phone     *string  `json:"phone" binding:"omitempty,max=50"`
	Password  string   `json:"password" binding:"required,min=8"`
	Roles     []string `json:"roles"`
	BranchIDs []string `json:"branch_ids" binding:"omitempty,dive,uuid"`
}

// UpdateUserRolesRequest replaces a user's roles
type UpdateUserRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

// BranchRequest creates or updates a branch
type BranchRequest struct {
	Name     string                 `json:"name" binding:"omitempty,min=2,max=255"`
	Code     string                 `json:"code" binding:"omitempty,max=50"`
	Address  *string                `json:"address"`
	Phone    *string                `json:"phone" binding:"omitempty,max=50"`
	Email    *string                `json:"email" binding:"omitempty,email"`
	Settings map[string]interface{} `json:"settings"`
	IsActive *bool                  `json:"is_active"`
}

// AddMemberRequest grants a user access to a branch
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=manager staff"`
}
