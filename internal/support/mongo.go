package support

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ziadkadry99/shopassist/internal/session"
)

// MongoStore persists tickets in the support_tickets collection of a
// MongoDB database.
type MongoStore struct {
	tickets *mongo.Collection
}

// NewMongoStore creates a ticket store over the given database.
func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{tickets: database.Collection("support_tickets")}
}

// CreateTicket validates and inserts a ticket document.
func (s *MongoStore) CreateTicket(ctx context.Context, t Ticket) (*Ticket, error) {
	t, err := prepare(t)
	if err != nil {
		return nil, err
	}
	if _, err := s.tickets.InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("inserting support ticket: %w", err)
	}
	return &t, nil
}

// ListTickets returns a session's tickets, oldest first.
func (s *MongoStore) ListTickets(ctx context.Context, sid session.ID) ([]Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.tickets.Find(ctx, bson.M{"session_id": string(sid)}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding support tickets: %w", err)
	}
	var result []Ticket
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decoding support tickets: %w", err)
	}
	return result, nil
}

// DialMongo connects to uri and verifies the connection with a ping.
func DialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}
