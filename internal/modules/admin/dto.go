package admin

// ReasonRequest leaves the minimum length to the lifecycle so an admin target
// answers 403 whatever reason was sent.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

type BulkActionRequest struct {
	Action  string  `json:"action" binding:"required,oneof=approve block unblock delete restore force-delete"`
	UserIDs []int64 `json:"userIds" binding:"required,min=1,max=100,dive,gt=0"`
	Reason  string  `json:"reason" binding:"omitempty,reason"`
}

// BulkOutcome reports what happened to one user of a bulk action.
type BulkOutcome struct {
	ID      int64  `json:"id"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type ListUsersQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending_approval active blocked deleted"`
	Query  string `form:"q" binding:"omitempty,max=255"`
}
