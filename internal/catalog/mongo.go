package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

// CollectionEvents is the name of the events collection.
const CollectionEvents = "events"

// Mongo is a Store backed by a MongoDB collection.
type Mongo struct {
	events  *mongo.Collection
	timeout time.Duration
}

// Connect dials MongoDB, verifies the connection, and ensures the
// (name, game) lookup index exists. The returned store wraps a client
// meant to be created once at process start and closed at process exit.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	m := &Mongo{
		events:  client.Database(database).Collection(CollectionEvents),
		timeout: timeout,
	}
	if err := m.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureIndexes creates the non-unique compound index used by the upsert
// filter. CreateOne is a no-op if the index already exists.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}, {Key: "game", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating (name, game) index: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.events.Database().Client().Disconnect(ctx)
}

// Upsert inserts the event if no record matches its identity, otherwise
// overwrites the mutable fields. The driver's counters distinguish an
// insert from an update from a write that changed nothing.
func (m *Mongo) Upsert(ctx context.Context, evt event.Event) (Result, error) {
	opCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	set := bson.M{"imageUrl": evt.ImageURL}
	if evt.HasSchedule() {
		set["startTime"] = evt.StartTime
		set["endTime"] = evt.EndTime
	}

	res, err := m.events.UpdateOne(opCtx,
		bson.M{"name": evt.Name, "game": evt.Game},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"name": evt.Name, "game": evt.Game},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return ResultUnchanged, fmt.Errorf("upserting event: %w", err)
	}

	switch {
	case res.UpsertedCount > 0:
		return ResultInserted, nil
	case res.ModifiedCount > 0:
		return ResultUpdated, nil
	default:
		return ResultUnchanged, nil
	}
}

// FindByGame returns all catalogued events for one game.
func (m *Mongo) FindByGame(ctx context.Context, game event.Game) ([]event.Event, error) {
	opCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cursor, err := m.events.Find(opCtx, bson.M{"game": game})
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}

	var events []event.Event
	if err := cursor.All(opCtx, &events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return events, nil
}

// CountEvents returns the total number of catalogued events.
func (m *Mongo) CountEvents(ctx context.Context) (int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	count, err := m.events.CountDocuments(opCtx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}
