package store

import (
	"context"
	"fmt"

	"store-admin/internal/models"
	"store-admin/internal/tenant"

	"github.com/lib/pq"
)

// publicDDL creates the tables shared by every tenant.
var publicDDL = []string{
	`CREATE TABLE IF NOT EXISTS public.users (
		id            BIGSERIAL PRIMARY KEY,
		email         VARCHAR(256) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS public.bot_tokens (
		id        BIGSERIAL PRIMARY KEY,
		token_bot TEXT NOT NULL UNIQUE,
		user_id   BIGINT NOT NULL REFERENCES public.users(id) ON DELETE CASCADE,
		store_id  BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS public.order_types (
		id    BIGSERIAL PRIMARY KEY,
		name  VARCHAR(64) NOT NULL,
		image TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS public.days_of_week (
		id          BIGSERIAL PRIMARY KEY,
		day_of_week VARCHAR(64) NOT NULL UNIQUE,
		number_day  INT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS public.types_delivery (
		id            BIGSERIAL PRIMARY KEY,
		delivery_name VARCHAR(64) NOT NULL
	)`,
}

// tenantDDL renders the tenant tables for one schema. References between tenant tables are
// bound to the same schema; references to shared tables stay public-qualified.
func tenantDDL(sc tenant.Scope) []string {
	audit := func() string {
		return fmt.Sprintf(`
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by   BIGINT NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
		updated_at   TIMESTAMPTZ,
		updated_by   BIGINT REFERENCES %[1]s(id) ON DELETE CASCADE,
		deleted_flag BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at   TIMESTAMPTZ,
		deleted_by   BIGINT REFERENCES %[1]s(id) ON DELETE CASCADE`, sc.Ident(tenant.Users))
	}
	storeRef := func(onDelete string) string {
		return fmt.Sprintf("store_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE %s", sc.Ident(tenant.Stores), onDelete)
	}

	return []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, pq.QuoteIdentifier(sc.Schema().String())),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id      BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,%s
	)`, sc.Ident(tenant.Stores), sc.Ident(tenant.Users), audit()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id                  BIGSERIAL PRIMARY KEY,
		name                VARCHAR(64) NOT NULL,
		address             TEXT,
		number_phone        TEXT,
		mobile_phone        TEXT,
		latitude            DOUBLE PRECISION,
		longitude           DOUBLE PRECISION,
		link_bot            VARCHAR(256),
		time_zone           VARCHAR(64) NOT NULL DEFAULT 'Europe/Moscow',
		format_unified      BOOLEAN NOT NULL DEFAULT FALSE,
		format_24_7         BOOLEAN NOT NULL DEFAULT FALSE,
		format_custom       BOOLEAN NOT NULL DEFAULT FALSE,
		open_hours_default  TIME,
		close_hours_default TIME,
		type_delivery_id    BIGINT REFERENCES %s(id) ON DELETE CASCADE,
		%s
	)`, sc.Ident(tenant.StoresInfo), sc.Ident(tenant.TypesDelivery), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id                           BIGSERIAL PRIMARY KEY,
		is_active                    BOOLEAN NOT NULL DEFAULT FALSE,
		subscription_start_date      TIMESTAMPTZ,
		subscription_duration_months INT,
		paused_at                    TIMESTAMPTZ,
		%s
	)`, sc.Ident(tenant.StoreSubscriptions), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id                      BIGSERIAL PRIMARY KEY,
		subscription_start_date TIMESTAMPTZ NOT NULL,
		paused_at               TIMESTAMPTZ,
		resumed_at              TIMESTAMPTZ,
		payment_date            TIMESTAMPTZ,
		payment_duration_days   INT,
		%s
	)`, sc.Ident(tenant.SubscriptionHistory), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id                                 BIGSERIAL PRIMARY KEY,
		cash                               BOOLEAN NOT NULL DEFAULT FALSE,
		card                               BOOLEAN NOT NULL DEFAULT FALSE,
		min_delivery_amount                BIGINT,
		min_order_amount_for_free_delivery BIGINT,
		%s
	)`, sc.Ident(tenant.StorePayments), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id                    BIGSERIAL PRIMARY KEY,
		email                 TEXT,
		welcome_message_bot   VARCHAR(4048),
		welcome_image         TEXT,
		tg_id_group           BIGINT,
		delivery_chat         BIGINT,
		order_chat            BIGINT,
		completed_orders_chat BIGINT,
		canceled_orders_chat  BIGINT,
		%s
	)`, sc.Ident(tenant.ServiceTextAndChats), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id                     BIGSERIAL PRIMARY KEY,
		full_organization_name TEXT,
		legal_address          TEXT,
		legal_number_phone     TEXT,
		inn                    BIGINT,
		ogrn                   BIGINT,
		postal_code            BIGINT,
		%s
	)`, sc.Ident(tenant.LegalInformations), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		day_of_week_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
		opening_time   TIME,
		closing_time   TIME,
		is_working     BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (store_id, day_of_week_id)
	)`, sc.Ident(tenant.WorkingDays), storeRef("CASCADE"), sc.Ident(tenant.DaysOfWeek)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		order_type_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
		is_active     BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (store_id, order_type_id)
	)`, sc.Ident(tenant.StoreOrderTypes), storeRef("CASCADE"), sc.Ident(tenant.OrderTypes)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id    BIGSERIAL PRIMARY KEY,
		price BIGINT NOT NULL,
		%s
	)`, sc.Ident(tenant.DeliveryFix), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id    BIGSERIAL PRIMARY KEY,
		name  TEXT NOT NULL,
		price BIGINT NOT NULL,
		%s
	)`, sc.Ident(tenant.DeliveryDistricts), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id           BIGSERIAL PRIMARY KEY,
		start_price  BIGINT NOT NULL,
		price_per_km BIGINT NOT NULL,
		min_price    BIGINT NOT NULL,
		%s
	)`, sc.Ident(tenant.DeliveryDistance), storeRef("CASCADE")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id           BIGSERIAL PRIMARY KEY,
		%s,
		name         VARCHAR(256) NOT NULL,
		name_rus     VARCHAR(256),
		image        TEXT,
		availability BOOLEAN NOT NULL DEFAULT TRUE,%s
	)`, sc.Ident(tenant.Categories), storeRef("RESTRICT"), audit()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id           BIGSERIAL PRIMARY KEY,
		%s,
		category_id  BIGINT NOT NULL REFERENCES %s(id) ON DELETE RESTRICT,
		name         VARCHAR(256) NOT NULL,
		description  TEXT,
		price        BIGINT NOT NULL DEFAULT 0,
		image        TEXT,
		availability BOOLEAN NOT NULL DEFAULT TRUE,
		is_popular   BOOLEAN NOT NULL DEFAULT FALSE,
		is_new       BOOLEAN NOT NULL DEFAULT FALSE,%s
	)`, sc.Ident(tenant.Products), storeRef("RESTRICT"), sc.Ident(tenant.Categories), audit()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         BIGSERIAL PRIMARY KEY,
		%s,
		tg_user_id BIGINT NOT NULL,
		resource   TEXT,
		first_name TEXT,
		last_name  TEXT,
		username   TEXT,
		is_premium BOOLEAN,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (store_id, tg_user_id)
	)`, sc.Ident(tenant.Customers), storeRef("RESTRICT")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id    BIGSERIAL PRIMARY KEY,
		%s,
		title VARCHAR(256) NOT NULL,
		text  TEXT,
		image TEXT,%s
	)`, sc.Ident(tenant.Mails), storeRef("CASCADE"), audit()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         BIGSERIAL PRIMARY KEY,
		%s,
		tg_user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
		quantity   INT NOT NULL CHECK (quantity > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (store_id, tg_user_id, product_id)
	)`, sc.Ident(tenant.Carts), storeRef("CASCADE"), sc.Ident(tenant.Products)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id                   BIGSERIAL PRIMARY KEY,
		%s,
		tg_user_id           BIGINT NOT NULL,
		order_type_id        BIGINT NOT NULL REFERENCES %s(id),
		delivery_district_id BIGINT REFERENCES %s(id) ON DELETE RESTRICT,
		total_price          BIGINT NOT NULL,
		status               VARCHAR(32) NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, sc.Ident(tenant.Orders), storeRef("RESTRICT"), sc.Ident(tenant.OrderTypes), sc.Ident(tenant.DeliveryDistricts)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
		%s,
		product_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE RESTRICT,
		quantity   INT NOT NULL,
		unit_price BIGINT NOT NULL
	)`, sc.Ident(tenant.OrderDetails), sc.Ident(tenant.Orders), storeRef("CASCADE"), sc.Ident(tenant.Products)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id               BIGSERIAL PRIMARY KEY,
		order_id         BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
		%s,
		tg_user_name     TEXT,
		table_number     TEXT,
		delivery_address TEXT,
		customer_name    TEXT,
		customer_phone   TEXT,
		customer_comment TEXT
	)`, sc.Ident(tenant.OrderCustomerInfo), sc.Ident(tenant.Orders), storeRef("CASCADE")),
	}
}

// Migrate creates the shared public tables
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range publicDDL {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate public schema: %w", err)
		}
	}
	return nil
}

// CreateTenantSchema creates the namespace and tables of one tenant. It is idempotent.
func (s *Store) CreateTenantSchema(ctx context.Context, schema tenant.Schema) error {
	sc, err := tenant.NewScope(schema)
	if err != nil {
		return err
	}
	return s.InTx(ctx, func(r *Repo) error {
		for _, stmt := range tenantDDL(sc) {
			if _, err := r.q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create tenant schema %s: %w", schema, err)
			}
		}
		return nil
	})
}

// Reference is the content of the shared lookup tables
type Reference struct {
	OrderTypes    []models.OrderType    `yaml:"order_types"`
	DaysOfWeek    []models.DayOfWeek    `yaml:"days_of_week"`
	TypesDelivery []models.TypeDelivery `yaml:"types_delivery"`
}

// SeedReference upserts the shared lookup rows by id
func (s *Store) SeedReference(ctx context.Context, ref Reference) error {
	orderTypes, err := tenant.SharedSQL(`
		INSERT INTO {0} (id, name, image) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, image = EXCLUDED.image`, tenant.OrderTypes)
	if err != nil {
		return err
	}
	days, err := tenant.SharedSQL(`
		INSERT INTO {0} (id, day_of_week, number_day) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET day_of_week = EXCLUDED.day_of_week, number_day = EXCLUDED.number_day`, tenant.DaysOfWeek)
	if err != nil {
		return err
	}
	types, err := tenant.SharedSQL(`
		INSERT INTO {0} (id, delivery_name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET delivery_name = EXCLUDED.delivery_name`, tenant.TypesDelivery)
	if err != nil {
		return err
	}

	return s.InTx(ctx, func(r *Repo) error {
		for _, ot := range ref.OrderTypes {
			if _, err := r.q.ExecContext(ctx, orderTypes, ot.ID, ot.Name, ot.Image); err != nil {
				return fmt.Errorf("failed to seed order type %d: %w", ot.ID, err)
			}
		}
		for _, d := range ref.DaysOfWeek {
			if _, err := r.q.ExecContext(ctx, days, d.ID, d.DayOfWeek, d.NumberDay); err != nil {
				return fmt.Errorf("failed to seed day of week %d: %w", d.ID, err)
			}
		}
		for _, t := range ref.TypesDelivery {
			if _, err := r.q.ExecContext(ctx, types, t.ID, t.DeliveryName); err != nil {
				return fmt.Errorf("failed to seed delivery type %d: %w", t.ID, err)
			}
		}
		return r.resetSequences(ctx, tenant.OrderTypes, tenant.DaysOfWeek, tenant.TypesDelivery)
	})
}

// resetSequences moves the id sequence of each table past its highest id
func (r *Repo) resetSequences(ctx context.Context, tables ...tenant.Table) error {
	for _, t := range tables {
		q, err := tenant.SharedSQL(`
			SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE((SELECT MAX(id) FROM {0}), 0) + 1, false)`, t)
		if err != nil {
			return err
		}
		if _, err := r.q.ExecContext(ctx, q, t.Schema.String()+"."+t.Name); err != nil {
			return fmt.Errorf("failed to reset id sequence of %s: %w", t.Name, err)
		}
	}
	return nil
}

// DefaultReference is the lookup data every deployment needs
var DefaultReference = Reference{
	OrderTypes: []models.OrderType{
		{ID: 1, Name: "Delivery"},
		{ID: 2, Name: "Pickup"},
		{ID: 3, Name: "In-house"},
	},
	DaysOfWeek: []models.DayOfWeek{
		{ID: 1, DayOfWeek: "Monday", NumberDay: 1},
		{ID: 2, DayOfWeek: "Tuesday", NumberDay: 2},
		{ID: 3, DayOfWeek: "Wednesday", NumberDay: 3},
		{ID: 4, DayOfWeek: "Thursday", NumberDay: 4},
		{ID: 5, DayOfWeek: "Friday", NumberDay: 5},
		{ID: 6, DayOfWeek: "Saturday", NumberDay: 6},
		{ID: 7, DayOfWeek: "Sunday", NumberDay: 7},
	},
	TypesDelivery: []models.TypeDelivery{
		{ID: models.DeliveryTypeFix, DeliveryName: "Fixed price"},
		{ID: models.DeliveryTypeDistrict, DeliveryName: "By district"},
		{ID: models.DeliveryTypeDistance, DeliveryName: "By distance"},
	},
}
