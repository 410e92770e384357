package docstore

import (
	"context"
	"errors"
	"fmt"

	"cureconnect/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps each collection onto a MongoDB collection with _id set to
// the record ID. Watch needs a replica set for change streams.
type MongoStore struct {
	db  *mongo.Database
	log *logrus.Logger
}

func NewMongoStore(db *mongo.Database, log *logrus.Logger) *MongoStore {
	return &MongoStore{db: db, log: log}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(raw)
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc repository.Document) error {
	stored, err := normalize(doc)
	if err != nil {
		return err
	}
	delete(stored, "_id")

	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, stored, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	patch, err := normalize(fields)
	if err != nil {
		return err
	}

	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrDocumentNotFound
	}
	return nil
}

func (s *MongoStore) Merge(ctx context.Context, collection, id string, fields repository.Document) error {
	patch, err := normalize(fields)
	if err != nil {
		return err
	}

	if len(patch) == 0 {
		return nil
	}

	set := bson.M{}
	flatten("", patch, set)

	_, err = s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Record, error) {
	filter := bson.M{}
	for _, f := range filters {
		filter[f.Field] = f.Value
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []repository.Record{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		id := fmt.Sprint(raw["_id"])
		doc, err := fromBSON(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, repository.Record{ID: id, Data: doc})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	FullDocument  bson.M `bson:"fullDocument"`
}

func (s *MongoStore) Watch(ctx context.Context, collection, id string) (repository.Subscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: id}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stream, err := s.db.Collection(collection).Watch(watchCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	sub := newSubscription(ctx, func() error {
		cancel()
		return nil
	})

	sub.run(func() {
		defer stream.Close(context.Background())

		if !sub.emit(readSnapshot(watchCtx, s, collection, id)) {
			return
		}
		for stream.Next(watchCtx) {
			var event changeEvent
			if err := stream.Decode(&event); err != nil {
				if !sub.emit(repository.Snapshot{ID: id, Err: err}) {
					return
				}
				continue
			}
			if !sub.emit(s.eventSnapshot(watchCtx, collection, id, event)) {
				return
			}
		}
		if err := stream.Err(); err != nil && watchCtx.Err() == nil {
			s.log.Warnf("Failed to read change stream %s/%s: %+v", collection, id, err)
			sub.emit(repository.Snapshot{ID: id, Err: err})
		}
	})

	return sub, nil
}

func (s *MongoStore) eventSnapshot(ctx context.Context, collection, id string, event changeEvent) repository.Snapshot {
	switch {
	case event.OperationType == "delete":
		return repository.Snapshot{ID: id}
	case event.FullDocument == nil:
		return readSnapshot(ctx, s, collection, id)
	default:
		doc, err := fromBSON(event.FullDocument)
		if err != nil {
			return repository.Snapshot{ID: id, Err: err}
		}
		return repository.Snapshot{ID: id, Data: doc, Exists: true}
	}
}

func (s *MongoStore) Close() error {
	return s.db.Client().Disconnect(context.Background())
}

func fromBSON(raw bson.M) (repository.Document, error) {
	delete(raw, "_id")
	return normalize(repository.Document(raw))
}

// flatten turns nested maps into dot paths so $set merges instead of
// replacing whole sub-documents.
func flatten(prefix string, doc repository.Document, out bson.M) {
	for key, value := range doc {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			flatten(path, nested, out)
			continue
		}
		out[path] = value
	}
}
