package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cureconnect/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentRow struct {
	Collection string         `gorm:"primaryKey;type:varchar(64)"`
	ID         string         `gorm:"primaryKey;type:varchar(128)"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (documentRow) TableName() string {
	return "documents"
}

// PostgresStore keeps every collection in one jsonb table. Writes publish on
// a Redis channel per record, which Watch subscribes to.
type PostgresStore struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewPostgresStore(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) (*PostgresStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data jsonb_path_ops)").Error; err != nil {
		return nil, fmt.Errorf("failed to create documents index: %w", err)
	}

	return &PostgresStore{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	return s.get(s.db.WithContext(ctx), collection, id)
}

func (s *PostgresStore) get(db *gorm.DB, collection, id string) (repository.Document, error) {
	var row documentRow
	err := db.Where("collection = ? AND id = ?", collection, id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRow(row)
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc repository.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	row := documentRow{Collection: collection, ID: id, Data: datatypes.JSON(raw)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	s.publish(ctx, collection, id)
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	// jsonb || replaces top-level keys and leaves the rest untouched.
	result := s.db.WithContext(ctx).Model(&documentRow{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{
			"data":       gorm.Expr("data || ?::jsonb", string(raw)),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrDocumentNotFound
	}

	s.publish(ctx, collection, id)
	return nil
}

func (s *PostgresStore) Merge(ctx context.Context, collection, id string, fields repository.Document) error {
	patch, err := normalize(fields)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.get(tx.Clauses(clause.Locking{Strength: "UPDATE"}), collection, id)
		if err != nil && !errors.Is(err, repository.ErrDocumentNotFound) {
			return err
		}

		raw, err := json.Marshal(deepMerge(current, patch))
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}

		row := documentRow{Collection: collection, ID: id, Data: datatypes.JSON(raw)}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, collection, id)
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Record, error) {
	query := s.db.WithContext(ctx).Where("collection = ?", collection)
	for _, f := range filters {
		raw, err := json.Marshal(map[string]any{f.Field: f.Value})
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		query = query.Where("data @> ?::jsonb", string(raw))
	}

	var rows []documentRow
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]repository.Record, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, repository.Record{ID: row.ID, Data: doc})
	}
	return records, nil
}

func (s *PostgresStore) Watch(ctx context.Context, collection, id string) (repository.Subscription, error) {
	if s.redisClient == nil {
		return nil, errors.New("watch requires a redis client")
	}

	pubsub := s.redisClient.Subscribe(ctx, channelName(collection, id))
	// Wait for the subscription to be confirmed so no write between it and
	// the initial read is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := newSubscription(ctx, func() error {
		cancel()
		return pubsub.Close()
	})

	messages := pubsub.Channel()
	sub.run(func() {
		if !sub.emit(readSnapshot(watchCtx, s, collection, id)) {
			return
		}
		for {
			select {
			case _, ok := <-messages:
				if !ok {
					return
				}
				if !sub.emit(readSnapshot(watchCtx, s, collection, id)) {
					return
				}
			case <-sub.done:
				return
			}
		}
	})

	return sub, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) publish(ctx context.Context, collection, id string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Publish(ctx, channelName(collection, id), "changed").Err(); err != nil {
		s.log.Warnf("Failed to publish document change %s/%s: %+v", collection, id, err)
	}
}

func decodeRow(row documentRow) (repository.Document, error) {
	doc := repository.Document{}
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", row.Collection, row.ID, err)
	}
	return doc, nil
}
