package tenant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Scope binds schema-agnostic table definitions to one tenant.
// It performs a single substitution (default namespace -> tenant namespace);
// shared tables keep their explicit public qualification.
type Scope struct {
	schema Schema
}

// NewScope returns a scope for the schema or ErrNoTenant when it is unusable.
func NewScope(s Schema) (Scope, error) {
	if !s.Valid() {
		return Scope{}, fmt.Errorf("%w: %q", ErrNoTenant, string(s))
	}
	return Scope{schema: s}, nil
}

// Schema returns the bound schema.
func (sc Scope) Schema() Schema {
	return sc.schema
}

// Ident renders the fully qualified, quoted identifier of t under this scope.
func (sc Scope) Ident(t Table) string {
	schema := sc.schema
	if t.Schema != "" {
		schema = t.Schema
	}
	return pq.QuoteIdentifier(string(schema)) + "." + pq.QuoteIdentifier(t.Name)
}

// SQL replaces {0}, {1}, ... in query with the identifiers of tables.
//
//	sc.SQL(`SELECT * FROM {0} WHERE store_id = $1`, tenant.Categories)
func (sc Scope) SQL(query string, tables ...Table) string {
	if len(tables) == 0 {
		return query
	}
	pairs := make([]string, 0, len(tables)*2)
	for i, t := range tables {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", sc.Ident(t))
	}
	return strings.NewReplacer(pairs...).Replace(query)
}

// SQL is the one-shot form of NewScope(s).SQL.
func SQL(s Schema, query string, tables ...Table) (string, error) {
	sc, err := NewScope(s)
	if err != nil {
		return "", err
	}
	return sc.SQL(query, tables...), nil
}

// SharedSQL renders a query touching only public tables. Tenant tables are refused
// because there is no schema to bind them to.
func SharedSQL(query string, tables ...Table) (string, error) {
	for _, t := range tables {
		if !t.IsShared() {
			return "", fmt.Errorf("%w: table %s needs a tenant scope", ErrNoTenant, t.Name)
		}
	}
	return Scope{schema: PublicSchema}.SQL(query, tables...), nil
}
