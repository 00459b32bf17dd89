// Package mongo implements the contact store on a MongoDB collection.
// Contacts are plain documents keyed "First Name", "Last Name", "Number"
// and "Address"; the server-assigned ObjectID is the contact ID.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/store"
)

// document is the stored shape of a contact.
type document struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	FirstName string        `bson:"First Name"`
	LastName  string        `bson:"Last Name"`
	Number    string        `bson:"Number"`
	Address   string        `bson:"Address"`
}

func toDocument(c contact.Contact) document {
	return document{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Number:    c.Number,
		Address:   c.Address,
	}
}

func (d document) contact() contact.Contact {
	return contact.Contact{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Number:    d.Number,
		Address:   d.Address,
	}
}

// Store is a contact store on one MongoDB collection. The client is held for
// the life of the Store and released by Close.
type Store struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	logger  *zap.Logger
}

var _ store.Store = (*Store)(nil)

// URI returns the connection string for host and port.
func URI(host string, port int) string {
	return "mongodb://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// Open connects to the server described by db, verifies it is reachable, and
// binds the configured collection. The collection is created by the server on
// first insert.
func Open(ctx context.Context, db config.Database, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	uri := URI(db.Host, db.Port)

	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(db.Timeout).
		SetTimeout(db.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting to %s: %w", uri, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, db.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging %s: %w", uri, err)
	}

	logger.Debug("mongo store opened",
		zap.String("uri", uri),
		zap.String("database", db.Name),
		zap.String("collection", db.Collection))

	return &Store{
		client:  client,
		coll:    client.Database(db.Name).Collection(db.Collection),
		timeout: db.Timeout,
		logger:  logger,
	}, nil
}

// Factory satisfies store.Factory.
func Factory(ctx context.Context, db config.Database, logger *zap.Logger) (store.Store, error) {
	return Open(ctx, db, logger)
}

// Insert stores c and returns the hex ObjectID assigned by the driver.
func (s *Store) Insert(ctx context.Context, c contact.Contact) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, toDocument(c))
	if err != nil {
		return "", fmt.Errorf("mongo: inserting contact: %w", err)
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// List returns every contact ordered by ObjectID, which follows insertion order.
func (s *Store) List(ctx context.Context) ([]contact.Contact, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(byID))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing contacts: %w", err)
	}
	return decodeAll(ctx, cur)
}

// Delete removes the contact whose ObjectID is the hex string id.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.coll.FindOneAndDelete(ctx, bson.D{{Key: contact.KeyID, Value: oid}}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("mongo: deleting %s: %w", id, err)
	}
	return nil
}

// Search runs an aggregation that matches term against every field.
func (s *Store) Search(ctx context.Context, term string) ([]contact.Contact, error) {
	if term == "" {
		return s.List(ctx)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Aggregate(ctx, searchPipeline(term))
	if err != nil {
		return nil, fmt.Errorf("mongo: searching %q: %w", term, err)
	}
	return decodeAll(ctx, cur)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnecting: %w", err)
	}
	return nil
}

var byID = bson.D{{Key: contact.KeyID, Value: 1}}

// searchFields are the document keys a search term is matched against.
var searchFields = []string{contact.KeyFirstName, contact.KeyLastName, contact.KeyNumber, contact.KeyAddress}

// searchPipeline builds a $match over an $or of one $regex per field.
// The term is regex-quoted so it matches literally.
func searchPipeline(term string) mongo.Pipeline {
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(term)}
	or := make(bson.A, 0, len(searchFields))
	for _, field := range searchFields {
		or = append(or, bson.D{{Key: field, Value: bson.D{{Key: "$regex", Value: pattern}}}})
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "$or", Value: or}}}},
		{{Key: "$sort", Value: byID}},
	}
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]contact.Contact, error) {
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding contacts: %w", err)
	}
	out := make([]contact.Contact, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.contact())
	}
	return out, nil
}

// withTimeout bounds ctx by the configured per-call timeout.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
