package dto

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type CompanySummary struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	BusinessType        string `json:"business_type"`
	InventoryManagement *bool  `json:"inventory_management,omitempty"`
}

type SignupResult struct {
	User    UserSummary    `json:"user"`
	Company CompanySummary `json:"company"`
}

type LoginResult struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
	User         UserSummary    `json:"user"`
	Company      CompanySummary `json:"company"`
}
