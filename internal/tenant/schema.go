package tenant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrNoTenant is returned whenever a data-access call is made without a usable schema.
var ErrNoTenant = errors.New("tenant schema is missing or invalid")

// maxIdentLen is the PostgreSQL identifier limit (NAMEDATALEN - 1).
const maxIdentLen = 63

// Schema names the physical namespace holding one tenant's tables.
// The zero value is deliberately invalid.
type Schema string

// FromUserID maps an admin user id to its schema. The mapping is the identity on the
// decimal representation, so user 42 owns schema "42".
func FromUserID(userID int64) Schema {
	return Schema(strconv.FormatInt(userID, 10))
}

// Parse validates an externally supplied schema name.
func Parse(s string) (Schema, error) {
	schema := Schema(s)
	if !schema.Valid() {
		return "", fmt.Errorf("%w: %q", ErrNoTenant, s)
	}
	return schema, nil
}

// Valid reports whether the schema can be used as a quoted identifier.
func (s Schema) Valid() bool {
	if len(s) == 0 || len(s) > maxIdentLen {
		return false
	}
	if s == PublicSchema {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		default:
			return false
		}
	}
	return true
}

func (s Schema) String() string {
	return string(s)
}

type ctxKey struct{}

// WithSchema stores the resolved schema on the request context.
func WithSchema(ctx context.Context, s Schema) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the schema stored by WithSchema.
func FromContext(ctx context.Context) (Schema, bool) {
	s, ok := ctx.Value(ctxKey{}).(Schema)
	if !ok || !s.Valid() {
		return "", false
	}
	return s, true
}
