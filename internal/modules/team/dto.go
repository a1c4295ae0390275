package team

type CreateSubUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,max=255"`
}

type SubUserActionRequest struct {
	Action string `json:"action" binding:"required,oneof=block unblock remove"`
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

type TeamRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,team_permission"`
}
