package dto

import "time"

type OrderFilters struct {
	CompanyID  string
	Status     string
	CustomerID string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}
