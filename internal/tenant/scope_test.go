package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUserID(t *testing.T) {
	assert.Equal(t, Schema("42"), FromUserID(42))
	assert.True(t, FromUserID(42).Valid())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"42", true},
		{"tenant_7", true},
		{"", false},
		{"public", false},
		{`42"; DROP TABLE users; --`, false},
		{"a.b", false},
		{string(make([]byte, 64)), false},
	}

	for _, tt := range tests {
		s, err := Parse(tt.in)
		if tt.valid {
			require.NoError(t, err, tt.in)
			assert.Equal(t, Schema(tt.in), s)
		} else {
			assert.True(t, errors.Is(err, ErrNoTenant), tt.in)
		}
	}
}

func TestScopeTranslatesTenantTables(t *testing.T) {
	sc, err := NewScope("42")
	require.NoError(t, err)

	assert.Equal(t, `"42"."categories"`, sc.Ident(Categories))
	assert.Equal(t, `"public"."bot_tokens"`, sc.Ident(BotTokens))
}

func TestScopeSQL(t *testing.T) {
	sc, err := NewScope("7")
	require.NoError(t, err)

	q := sc.SQL(`SELECT s.id FROM {0} s JOIN {1} t ON t.store_id = s.id WHERE s.id = $1`, Stores, BotTokens)
	assert.Equal(t, `SELECT s.id FROM "7"."stores" s JOIN "public"."bot_tokens" t ON t.store_id = s.id WHERE s.id = $1`, q)
}

func TestScopeSQLManyTables(t *testing.T) {
	sc, err := NewScope("1")
	require.NoError(t, err)

	tables := make([]Table, 0, 12)
	for i := 0; i < 11; i++ {
		tables = append(tables, Categories)
	}
	tables = append(tables, Products)

	q := sc.SQL("{1} {11}", tables...)
	assert.Equal(t, `"1"."categories" "1"."products"`, q)
}

func TestScopesAreIsolated(t *testing.T) {
	a, err := SQL("1", "SELECT * FROM {0}", Categories)
	require.NoError(t, err)
	b, err := SQL("2", "SELECT * FROM {0}", Categories)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, `"1".`)
	assert.Contains(t, b, `"2".`)
}

func TestZeroSchemaIsRejected(t *testing.T) {
	_, err := NewScope("")
	assert.ErrorIs(t, err, ErrNoTenant)

	_, err = SQL("", "SELECT 1")
	assert.ErrorIs(t, err, ErrNoTenant)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSchema(context.Background(), "42")
	s, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, Schema("42"), s)
}

func TestTenantTablesAreUnqualified(t *testing.T) {
	for _, tbl := range TenantTables {
		assert.False(t, tbl.IsShared(), tbl.Name)
	}
	for _, tbl := range []Table{Users, BotTokens, OrderTypes, DaysOfWeek, TypesDelivery} {
		assert.True(t, tbl.IsShared(), tbl.Name)
	}
}

func TestSharedSQL(t *testing.T) {
	q, err := SharedSQL("SELECT * FROM {0} WHERE token_bot = $1", BotTokens)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "public"."bot_tokens" WHERE token_bot = $1`, q)

	_, err = SharedSQL("SELECT * FROM {0}", Categories)
	assert.ErrorIs(t, err, ErrNoTenant)
}
