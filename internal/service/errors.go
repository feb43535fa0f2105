package service

import (
	"errors"
	"fmt"

	"store-admin/internal/models"
	"store-admin/internal/store"
	"store-admin/internal/util"
)

var (
	// ErrValidation is returned when input is rejected before any statement runs.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a write is blocked by other rows.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when the addressed row does not exist in the tenant.
	ErrNotFound = errors.New("not found")
)

// Result is the payload returned by write operations
type Result struct {
	Status  string      `json:"status"`
	ID      int64       `json:"id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Result statuses
const (
	StatusCreated = "created"
	StatusSuccess = "success"
)

func created(id int64, data interface{}) *Result {
	return &Result{Status: StatusCreated, ID: id, Data: data}
}

func success(data interface{}, message string) *Result {
	return &Result{Status: StatusSuccess, Data: data, Message: message}
}

func toggled(field string, value bool) *Result {
	return &Result{
		Status:  StatusSuccess,
		Data:    map[string]bool{field: value},
		Message: fmt.Sprintf("%s toggled", field),
	}
}

// translate maps store errors onto service errors. conflictMsg explains a referential
// conflict to the client.
func translate(entity string, err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrConflict):
		util.ConflictsTotal.WithLabelValues(entity).Inc()
		return fmt.Errorf("%w: %s", ErrConflict, conflictMsg)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, entity)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, entity)
	case errors.Is(err, models.ErrUnknownField):
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return err
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
