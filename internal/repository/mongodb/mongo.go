package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinel errors surfaced by every repository in this package.
var (
	// ErrNotFound is returned when an id or lookup does not resolve.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates one of
	// the unique indexes declared in EnsureIndexes.
	ErrDuplicateKey = errors.New("duplicate key")
)

const (
	collFeeds            = "feeds"
	collFeedConsumptions = "feed_consumptions"
	collEggProductions   = "egg_productions"
	collPayrolls         = "payrolls"
	collWorkers          = "workers"
	collAttendances      = "attendances"
	collPoultryBatches   = "poultry_batches"
	collPoultryRecords   = "poultry_records"
	collVaccinations     = "vaccinations"
	collAdmins           = "admins"
	collDailySnapshots   = "daily_snapshots"
)

// Mongo owns the client connection shared by all repositories.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the unique indexes the ledger invariants rely on:
// one payroll row and one production batch per calendar date, one attendance
// sheet per (date, shift), one admin per email.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}

	indexes := map[string]mongo.IndexModel{
		collPayrolls:       unique(bson.D{{Key: "date", Value: 1}}),
		collEggProductions: unique(bson.D{{Key: "date", Value: 1}}),
		collAttendances:    unique(bson.D{{Key: "date", Value: 1}, {Key: "shift", Value: 1}}),
		collAdmins:         unique(bson.D{{Key: "email", Value: 1}}),
	}

	for coll, model := range indexes {
		if _, err := m.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

// WithTransaction runs fn inside a MongoDB session transaction so that
// check-then-write sequences (stock validation followed by an insert) do not
// race concurrent writers.
func (m *Mongo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// mapWriteErr translates driver errors into the package sentinels.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

// dayWindow returns [midnight, nextMidnight) for the day containing t,
// matching the day-boundary range queries the API exposes.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// onOrBeforeFilter matches documents dated on or before the day containing
// asOf; comparison is by calendar day, not instant.
func onOrBeforeFilter(asOf time.Time) bson.M {
	_, end := dayWindow(asOf)
	return bson.M{"date": bson.M{"$lt": end}}
}

// rangeFilter matches documents dated within [from, to], both bounds
// inclusive at day granularity.
func rangeFilter(from, to time.Time) bson.M {
	start, _ := dayWindow(from)
	_, end := dayWindow(to)
	return bson.M{"date": bson.M{"$gte": start, "$lt": end}}
}

var (
	sortDateAsc  = options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	sortDateDesc = options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
)
