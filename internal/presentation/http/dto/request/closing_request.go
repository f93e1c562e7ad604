package request

// WeeklyClosingRequest represents the weekly closing options
type WeeklyClosingRequest struct {
	SettleGratuities bool `json:"settle_gratuities"`
}

// ClosingFilterRequest represents closing history parameters
type ClosingFilterRequest struct {
	Kind    string `form:"kind" binding:"omitempty,oneof=daily weekly"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
