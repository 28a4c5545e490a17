package dto

type CustomerFilters struct {
	CompanyID   string
	SearchQuery string
	IsActive    *bool
	Page        int
	Limit       int
}
