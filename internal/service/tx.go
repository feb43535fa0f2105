package service

import (
	"context"

	"store-admin/internal/store"
	"store-admin/internal/util"
)

// runTx executes one request's writes in a single transaction and counts rollbacks.
func runTx(ctx context.Context, st *store.Store, op string, fn func(r *store.Repo) error) error {
	err := st.InTx(ctx, fn)
	if err != nil {
		util.TxRollbacksTotal.WithLabelValues(op).Inc()
	}
	return err
}
