package model

const (
	BusinessTypeCustomOrders = "custom_orders"
	BusinessTypeWholesale    = "wholesale"

	InventoryTypeFinishedProducts = "finished_products"
	InventoryTypeRawMaterials     = "raw_materials"
)

type Company struct {
	BaseModel
	UserID              string  `db:"user_id" json:"user_id"`
	Name                string  `db:"name" json:"name"`
	Email               *string `db:"email" json:"email"`
	Phone               *string `db:"phone" json:"phone"`
	Address             *string `db:"address" json:"address"`
	BusinessType        string  `db:"business_type" json:"business_type"`
	InventoryManagement bool    `db:"inventory_management" json:"inventory_management"`
	InventoryType       string  `db:"inventory_type" json:"inventory_type"`
	Currency            string  `db:"currency" json:"currency"`
	Timezone            string  `db:"timezone" json:"timezone"`
}
