package mongodb

import (
	"context"
	"fmt"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
)

// SnapshotRepository stores the end-of-day ledger positions written by the
// scheduler, so the history survives even when the sheet export is disabled.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot models.DailySnapshot) error
}

type snapshotRepository struct {
	m *Mongo
}

// NewSnapshotRepository builds the daily_snapshots collection adapter.
func NewSnapshotRepository(m *Mongo) SnapshotRepository {
	return &snapshotRepository{m: m}
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot models.DailySnapshot) error {
	if _, err := r.m.collection(collDailySnapshots).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("insert daily snapshot: %w", err)
	}
	return nil
}
