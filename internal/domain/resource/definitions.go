package resource

import (
	"fmt"

	"crudcenter/internal/domain/filter"
)

// Connection names.
const (
	UserCenter     = "user_center"
	AssetCenter    = "asset_center"
	AssetAnalytics = "asset_analytics"
)

// defaultMaxLimit caps page size on every built-in resource.
const defaultMaxLimit = 1000

var auditFields = []filter.Field{
	{Name: "created_at", Type: filter.DateTime},
	{Name: "updated_at", Type: filter.DateTime},
}

func withAudit(fields ...filter.Field) []filter.Field {
	return append(fields, auditFields...)
}

// Companies lists user-center companies.
var Companies = Resource{
	Name:       "companies",
	Connection: UserCenter,
	Table:      "company",
	Schema: filter.MustSchema("companies", withAudit(
		filter.Field{Name: "id", Type: filter.UUID, Operators: []filter.Operator{filter.Eq, filter.In}},
		filter.Field{Name: "name", Type: filter.String},
		filter.Field{Name: "industry", Type: filter.String},
	)...),
	Fields:       []string{"id", "name", "industry", "created_at", "updated_at"},
	SearchFields: []string{"name", "industry"},
	OrderFields:  []string{"created_at", "updated_at", "name"},
	DefaultOrder: []string{"-created_at"},
	MaxLimit:     defaultMaxLimit,
	SoftDelete:   true,
}

// Accounts lists user-center accounts.
var Accounts = Resource{
	Name:       "accounts",
	Connection: UserCenter,
	Table:      "account",
	Schema: filter.MustSchema("accounts", withAudit(
		filter.Field{Name: "id", Type: filter.UUID, Operators: []filter.Operator{filter.Eq, filter.In}},
		filter.Field{Name: "company_id", Type: filter.UUID},
		filter.Field{Name: "name", Type: filter.String},
	)...),
	Fields:       []string{"id", "company_id", "name", "created_at", "updated_at"},
	SearchFields: []string{"name"},
	OrderFields:  []string{"created_at"},
	DefaultOrder: []string{"-created_at"},
	MaxLimit:     defaultMaxLimit,
	SoftDelete:   true,
}

// VehicleBrands lists asset-center vehicle brands.
var VehicleBrands = Resource{
	Name:       "vehicle_brands",
	Connection: AssetCenter,
	Table:      "vehiclebrand",
	Schema: filter.MustSchema("vehicle_brands", withAudit(
		filter.Field{Name: "id", Type: filter.UUID, Operators: []filter.Operator{filter.Eq, filter.In}},
		filter.Field{Name: "vehicle_brand", Type: filter.String},
	)...),
	Fields:       []string{"id", "vehicle_brand", "created_at", "updated_at"},
	SearchFields: []string{"vehicle_brand"},
	OrderFields:  []string{"created_at", "vehicle_brand"},
	DefaultOrder: []string{"-created_at"},
	MaxLimit:     defaultMaxLimit,
	SoftDelete:   true,
}

// VehicleTrips lists trip facts from the analytics store.
var VehicleTrips = Resource{
	Name:       "vehicle_trips",
	Connection: AssetAnalytics,
	Table:      "vehicle_trip",
	Schema: filter.MustSchema("vehicle_trips",
		filter.Field{Name: "vehicle_id", Type: filter.UUID},
		filter.Field{Name: "vehicle_brand", Type: filter.String},
		filter.Field{Name: "status", Type: filter.Enum, EnumValues: []string{"idle", "moving", "charging", "maintenance"}},
		filter.Field{Name: "mileage", Type: filter.Integer},
		filter.Field{Name: "fare", Type: filter.Decimal},
		filter.Field{Name: "electric", Type: filter.Boolean},
		filter.Field{Name: "started_at", Type: filter.DateTime},
	),
	Fields:       []string{"trip_id", "vehicle_id", "vehicle_brand", "status", "mileage", "fare", "electric", "started_at"},
	SearchFields: []string{"vehicle_brand"},
	OrderFields:  []string{"started_at", "mileage", "fare"},
	DefaultOrder: []string{"-started_at"},
	MaxLimit:     defaultMaxLimit,
}

// Builtin returns a registry holding every built-in resource.
func Builtin() (*Registry, error) {
	reg := NewRegistry()
	for _, res := range []Resource{Companies, Accounts, VehicleBrands, VehicleTrips} {
		if err := reg.Register(res); err != nil {
			return nil, fmt.Errorf("register %s: %w", res.Name, err)
		}
	}
	return reg, nil
}
