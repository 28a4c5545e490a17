package dto

type InventoryFilters struct {
	CompanyID string
	Type      string
	LowStock  bool
	IsActive  *bool
	Page      int
	Limit     int
}

type MovementFilters struct {
	CompanyID   string
	InventoryID string
	Page        int
	Limit       int
}
