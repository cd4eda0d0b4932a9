package entity

// ProfileSummary represents everything collected for a single AWS profile.
// A failed profile keeps Success=false and carries the reason in Error.
type ProfileSummary struct {
	Profile   string       `json:"profile"`
	AccountID string       `json:"account_id"`
	Period    Period       `json:"period"`
	Summary   CostSummary  `json:"summary"`
	Budgets   []BudgetInfo `json:"budgets,omitempty"`
	Success   bool         `json:"success"`
	Error     string       `json:"error,omitempty"`
}
