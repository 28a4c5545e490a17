package server

import (
	"encoding/json"
	"net/http"
	"reflect"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/apperror"
	companyDTO "github.com/fekuna/orderflow-service/internal/company/dto"
	customerDTO "github.com/fekuna/orderflow-service/internal/customer/dto"
	"github.com/fekuna/orderflow-service/internal/httpx"
	identityDTO "github.com/fekuna/orderflow-service/internal/identity/dto"
	inventoryDTO "github.com/fekuna/orderflow-service/internal/inventory/dto"
	orderDTO "github.com/fekuna/orderflow-service/internal/order/dto"
	productDTO "github.com/fekuna/orderflow-service/internal/product/dto"
	"github.com/fekuna/orderflow-service/internal/validation"
)

// schemaPayloads maps the public schema names to the request bodies they describe.
var schemaPayloads = map[string]interface{}{
	"signup":           &identityDTO.SignupInput{},
	"login":            &identityDTO.LoginInput{},
	"company":          &companyDTO.UpdateCompanyInput{},
	"product":          &productDTO.CreateProductInput{},
	"customer":         &customerDTO.CreateCustomerInput{},
	"order":            &orderDTO.CreateOrderInput{},
	"order-update":     &orderDTO.UpdateOrderInput{},
	"inventory":        &inventoryDTO.CreateInventoryInput{},
	"inventory-update": &inventoryDTO.UpdateInventoryInput{},
	"movement":         &inventoryDTO.MovementInput{},
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
)

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
	rawMessageType  = reflect.TypeOf(json.RawMessage{})
	optDecimalType  = reflect.TypeOf(validation.OptionalDecimal{})
)

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case decimalType, nullDecimalType:
				return &jsonschema.Schema{Type: "number"}
			case optDecimalType:
				return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{{Type: "number"}, {Type: "null"}}}
			case rawMessageType:
				return &jsonschema.Schema{Type: "object"}
			}
			return nil
		},
	}
}

func loadSchemas() map[string]*jsonschema.Schema {
	schemasOnce.Do(func() {
		r := reflector()
		schemas = make(map[string]*jsonschema.Schema, len(schemaPayloads))
		for name, v := range schemaPayloads {
			s := r.Reflect(v)
			s.Title = name
			schemas[name] = s
		}
	})
	return schemas
}

// SchemaNames lists the documented payloads in name order.
func SchemaNames() []string {
	names := make([]string, 0, len(schemaPayloads))
	for name := range schemaPayloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema serves the JSON Schema of a request payload: GET /docs/schemas/{name}.
func Schema(w http.ResponseWriter, r *http.Request) {
	s, ok := loadSchemas()[chi.URLParam(r, "name")]
	if !ok {
		httpx.WriteError(w, r, apperror.NotFound("Schema"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}
