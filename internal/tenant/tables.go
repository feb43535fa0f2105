package tenant

// PublicSchema is the namespace shared by every tenant.
const PublicSchema Schema = "public"

// Table is a table definition. An empty Schema means the table is tenant scoped and is
// resolved against the active tenant at execution time.
type Table struct {
	Name   string
	Schema Schema
}

// Tenant declares a schema-agnostic table that lives once per tenant.
func Tenant(name string) Table {
	return Table{Name: name}
}

// Shared declares a table in the public namespace.
func Shared(name string) Table {
	return Table{Name: name, Schema: PublicSchema}
}

// IsShared reports whether the table is pinned to the public namespace.
func (t Table) IsShared() bool {
	return t.Schema == PublicSchema
}

// Tenant-scoped tables.
var (
	Stores              = Tenant("stores")
	StoresInfo          = Tenant("stores_info")
	StoreSubscriptions  = Tenant("store_subscriptions")
	SubscriptionHistory = Tenant("subscription_history")
	StorePayments       = Tenant("store_payments")
	ServiceTextAndChats = Tenant("service_text_and_chats")
	LegalInformations   = Tenant("legal_informations")
	WorkingDays         = Tenant("working_days")
	StoreOrderTypes     = Tenant("store_order_types_association")
	DeliveryFix         = Tenant("delivery_fix")
	DeliveryDistricts   = Tenant("stodelivery_districts")
	DeliveryDistance    = Tenant("delivery_distance")
	Categories          = Tenant("categories")
	Products            = Tenant("products")
	Customers           = Tenant("customers")
	Mails               = Tenant("mails")
	Carts               = Tenant("carts")
	Orders              = Tenant("orders")
	OrderDetails        = Tenant("order_details")
	OrderCustomerInfo   = Tenant("order_customer_info")
)

// Shared tables.
var (
	Users         = Shared("users")
	BotTokens     = Shared("bot_tokens")
	OrderTypes    = Shared("order_types")
	DaysOfWeek    = Shared("days_of_week")
	TypesDelivery = Shared("types_delivery")
)

// TenantTables lists every table created inside a tenant schema, in dependency order.
var TenantTables = []Table{
	Stores, StoresInfo, StoreSubscriptions, SubscriptionHistory, StorePayments,
	ServiceTextAndChats, LegalInformations, WorkingDays, StoreOrderTypes,
	DeliveryFix, DeliveryDistricts, DeliveryDistance,
	Categories, Products, Customers, Mails, Carts,
	Orders, OrderDetails, OrderCustomerInfo,
}
