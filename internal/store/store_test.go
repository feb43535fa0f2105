package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"store-admin/internal/models"
	"store-admin/internal/tenant"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStoreFromDB(sqlx.NewDb(db, "postgres")), mock
}

func TestInTxCommits(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."categories"`)).
		WithArgs(int64(1), "Drinks", nil, nil, true, int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	var id int64
	err := s.InTx(ctx, func(r *Repo) error {
		var err error
		id, err = r.CreateCategory(ctx, "42", models.CategoryInput{StoreID: 1, Name: "Drinks", Availability: true}, 42)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(r *Repo) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = s.InTx(context.Background(), func(r *Repo) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryReferencedByProductsIsConflict(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "42"."categories" WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnError(&pq.Error{Code: codeForeignKeyViolation, Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := s.InTx(ctx, func(r *Repo) error {
		return r.DeleteCategory(ctx, "42", 3)
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueViolationIsDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "public"."bot_tokens"`)).
		WillReturnError(&pq.Error{Code: codeUniqueViolation})

	_, err := s.Repo().CreateBotToken(context.Background(), "123:abc", 42, 1)

	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestListCategoriesIsScopedToSchema(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."categories"`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name", "availability"}).
			AddRow(2, 1, "Pizza", true).
			AddRow(1, 1, "Drinks", false))

	categories, err := s.Repo().ListCategories(context.Background(), "42", 1)

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Pizza", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingSchemaIsRejectedBeforeSQL(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.Repo().ListCategories(context.Background(), "", 1)

	assert.ErrorIs(t, err, tenant.ErrNoTenant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlipProductFlagNegatesColumn(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "7"."products" SET is_popular = NOT is_popular`)).
		WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"is_popular"}).AddRow(true))

	v, err := s.Repo().FlipProductFlag(context.Background(), "7", 5, 7, models.ProductPopular)

	require.NoError(t, err)
	assert.True(t, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlipMissingRowIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "7"."categories" SET deleted_flag = NOT deleted_flag`)).
		WillReturnRows(sqlmock.NewRows([]string{"deleted_flag"}))

	_, err := s.Repo().FlipCategoryDeleted(context.Background(), "7", 99, 7)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "7"."mails"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Repo().UpdateMail(context.Background(), "7", 99, models.MailInput{Title: "x"}, 7)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStoreFormatClearsOtherFormats(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "7"."stores_info" SET format_unified = false, format_24_7 = true, format_custom = false WHERE store_id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Repo().SetStoreFormat(context.Background(), "7", 1, models.Format247)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("district returns a collection", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM "7"."stodelivery_districts"`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name", "price"}).
				AddRow(1, 1, "North", 300).
				AddRow(2, 1, "South", 450))

		info, err := s.Repo().ResolveDelivery(ctx, "7", 1, models.DeliveryTypeDistrict)

		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Len(t, info.Districts, 2)
		assert.Nil(t, info.Fix)
		assert.Nil(t, info.Distance)
	})

	t.Run("district with no rows is an empty collection", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM "7"."stodelivery_districts"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name", "price"}))

		info, err := s.Repo().ResolveDelivery(ctx, "7", 1, models.DeliveryTypeDistrict)

		require.NoError(t, err)
		require.NotNil(t, info)
		assert.NotNil(t, info.Districts)
		assert.Empty(t, info.Districts)
	})

	t.Run("fix returns a single row", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM "7"."delivery_fix"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "price"}).AddRow(1, 1, 250))

		info, err := s.Repo().ResolveDelivery(ctx, "7", 1, models.DeliveryTypeFix)

		require.NoError(t, err)
		require.NotNil(t, info.Fix)
		assert.Equal(t, int64(250), info.Fix.Price)
	})

	t.Run("distance without row has no distance", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM "7"."delivery_distance"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "start_price", "price_per_km", "min_price"}))

		info, err := s.Repo().ResolveDelivery(ctx, "7", 1, models.DeliveryTypeDistance)

		require.NoError(t, err)
		assert.Nil(t, info.Distance)
	})

	for _, discriminator := range []int64{0, 4, -1} {
		s, mock := newMockStore(t)

		info, err := s.Repo().ResolveDelivery(ctx, "7", 1, discriminator)

		assert.NoError(t, err)
		assert.Nil(t, info)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestDecrementCartItemDropsLastUnit(t *testing.T) {
	s, mock := newMockStore(t)
	in := models.CartItemInput{StoreID: 1, TgUserID: 100, ProductID: 5}
	args := []driver.Value{int64(1), int64(100), int64(5)}

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "7"."carts" SET quantity = quantity - 1`)).
		WithArgs(args...).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "7"."carts"`)).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	qty, err := s.Repo().DecrementCartItem(context.Background(), "7", in)

	require.NoError(t, err)
	assert.Zero(t, qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantDDLQualifiesReferences(t *testing.T) {
	sc, err := tenant.NewScope("42")
	require.NoError(t, err)

	ddl := tenantDDL(sc)

	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "42"`, ddl[0])
	var products string
	for _, stmt := range ddl {
		if regexp.MustCompile(`CREATE TABLE IF NOT EXISTS "42"\."products"`).MatchString(stmt) {
			products = stmt
		}
	}
	require.NotEmpty(t, products)
	assert.Contains(t, products, `REFERENCES "42"."categories"(id) ON DELETE RESTRICT`)
	assert.Contains(t, products, `REFERENCES "public"."users"(id)`)
	assert.Len(t, ddl, len(tenant.TenantTables)+1)
}

func TestSeedReferenceResetsIDSequences(t *testing.T) {
	s, mock := newMockStore(t)
	ref := Reference{
		OrderTypes:    []models.OrderType{{ID: 1, Name: "Delivery"}, {ID: 2, Name: "Pickup"}},
		DaysOfWeek:    []models.DayOfWeek{{ID: 1, DayOfWeek: "Monday", NumberDay: 1}},
		TypesDelivery: []models.TypeDelivery{{ID: 1, DeliveryName: "Fix"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "public"."order_types"`)).
		WithArgs(int64(1), "Delivery", nil).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "public"."order_types"`)).
		WithArgs(int64(2), "Pickup", nil).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "public"."days_of_week"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "public"."types_delivery"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	for _, table := range []string{"order_types", "days_of_week", "types_delivery"} {
		mock.ExpectExec(regexp.QuoteMeta(`SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE((SELECT MAX(id) FROM "public"."` + table + `"), 0) + 1, false)`)).
			WithArgs("public." + table).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, s.SeedReference(context.Background(), ref))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedReferenceRollsBackWhenSequenceResetFails(t *testing.T) {
	s, mock := newMockStore(t)
	ref := Reference{OrderTypes: []models.OrderType{{ID: 1, Name: "Delivery"}}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "public"."order_types"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT setval`)).
		WillReturnError(errors.New("permission denied for sequence"))
	mock.ExpectRollback()

	err := s.SeedReference(context.Background(), ref)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_types")
	assert.NoError(t, mock.ExpectationsWereMet())
}
