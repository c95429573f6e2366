package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"telugudb/pkg/models"
)

// maxUpdateAttempts bounds the compare-and-swap loop in MongoStore.Update.
const maxUpdateAttempts = 5

// errConflict means another writer replaced the document between our
// read and our write.
var errConflict = errors.New("concurrent update")

// MongoStore keeps content in a MongoDB collection, one document per
// content item with seasons and episodes embedded. Documents are keyed
// by ObjectID, the same as collections written by the web app.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

var _ Store = (*MongoStore)(nil)

// contentDoc is the stored shape of a content item.
type contentDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	models.Content `bson:",inline"`
}

func (d *contentDoc) content() *models.Content {
	c := d.Content
	c.ID = d.ID.Hex()
	return &c
}

// objectID parses a public id. Anything that is not an ObjectID hex
// string cannot name a stored document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// NewMongoStore uses the "content" collection of database dbName.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection("content"),
		now:    time.Now,
	}
}

// EnsureIndexes creates the indexes List filters on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "language", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, c *models.Content) error {
	now := timestamp(s.now())
	oid := primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, contentDoc{ID: oid, Content: *c}); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	c.ID = oid.Hex()
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Content, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc contentDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	return doc.content(), nil
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.coll.Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Content, 0)
	for cur.Next(ctx) {
		var doc contentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list decode: %w", err)
		}
		c := doc.content()
		if f.Search != "" && !f.Matches(c) {
			continue
		}
		out = append(out, *c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor err: %w", err)
	}
	return out, nil
}

// mongoFilter pushes the exact-match fields and a case-insensitive regex
// prefilter for Search down to the server. List re-checks Search with
// Filter.Matches so both stores agree on folding rules.
func mongoFilter(f Filter) bson.M {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = string(f.Type)
	}
	if f.Language != "" {
		q["language"] = f.Language
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"tags": re},
		}
	}
	return q
}

// Update replaces the whole document only if nobody else has written it
// since it was read (matched on updatedAt), retrying a few times.
func (s *MongoStore) Update(ctx context.Context, id string, mutate func(*models.Content) error) (*models.Content, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		next, err := s.tryUpdate(ctx, id, mutate)
		if errors.Is(err, errConflict) {
			continue
		}
		return next, err
	}
	return nil, fmt.Errorf("update content %s: %w after %d attempts", id, errConflict, maxUpdateAttempts)
}

func (s *MongoStore) tryUpdate(ctx context.Context, id string, mutate func(*models.Content) error) (*models.Content, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = nextUpdatedAt(s.now(), current.UpdatedAt)

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid, "updatedAt": current.UpdatedAt}, contentDoc{ID: oid, Content: *next})
	if err != nil {
		return nil, fmt.Errorf("replace content: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either deleted or replaced since the read; Get on the next
		// attempt tells the two apart.
		return nil, errConflict
	}
	return next, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
