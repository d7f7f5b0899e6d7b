package dto

// AnalyticsResult mirrors the admin dashboard chart payload. For the "all"
// period only the totals are populated.
type AnalyticsResult struct {
	Labels           []string `json:"labels,omitempty"`
	DataAll          []int64  `json:"data_all,omitempty"`
	DataAdmin        []int64  `json:"data_admin,omitempty"`
	DataProfessional []int64  `json:"data_professional,omitempty"`
	DataUser         []int64  `json:"data_user,omitempty"`

	TotalUsers        int64 `json:"total_users"`
	NewUsers          int64 `json:"new_users,omitempty"`
	AdminCount        int64 `json:"admin_count"`
	ProfessionalCount int64 `json:"professional_count"`
	RegularCount      int64 `json:"regular_count"`

	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Period    string `json:"period"`
}
