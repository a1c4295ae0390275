package role

type ListRolesQuery struct {
	Type string `form:"type" json:"type" binding:"omitempty,oneof=admin user"`
}

type RoleRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Type        string  `json:"type" binding:"omitempty,oneof=admin user"`
	Permissions []int64 `json:"permissions" binding:"omitempty,dive,gt=0"`
}

type AssignRolesRequest struct {
	Roles []int64 `json:"roles" binding:"omitempty,dive,gt=0"`
}
