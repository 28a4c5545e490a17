package dto

type ProductFilters struct {
	CompanyID      string `json:"company_id"`
	Category       string `json:"category,omitempty"`
	IsActive       *bool  `json:"is_active,omitempty"`
	TrackInventory *bool  `json:"track_inventory,omitempty"`
	SearchQuery    string `json:"search,omitempty"`
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
}
