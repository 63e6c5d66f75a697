package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const measurementCollection = "measurements"

// bucketMinuteFormat is minute precision; combined with the even-minute
// floor it yields one admissible document id per device per 2-minute bucket.
const bucketMinuteFormat = "2006-01-02T15:04"

// mongoRepo is the document measurement backend. Mongo has no cross-document
// transactions we want to lean on, so instead of an interval gate the
// document id is derived from the device and the reading's time floored to
// an even minute. Field firmware retries requests milliseconds apart; both
// attempts land on the same id and the duplicate insert echoes the stored
// document back. This trades the precise rate window for a coarse 2-minute
// natural dedup.
type mongoRepo struct {
	collection *mongo.Collection
	log        *zap.Logger
}

type measurementDoc struct {
	DocID       string    `bson:"_id"`
	ID          string    `bson:"id"`
	DeviceID    int64     `bson:"device_id"`
	Measurement string    `bson:"measurement"`
	RecordedAt  time.Time `bson:"recorded_at"`
}

func NewMongo(client *mongo.Client, database string, log *zap.Logger) measurementdomain.Repository {
	return &mongoRepo{
		collection: client.Database(database).Collection(measurementCollection),
		log:        log.Named("measurement.mongo"),
	}
}

func bucketDocumentID(deviceID snowflake.ID, recordedAt time.Time) string {
	bucket := recordedAt
	if minute := bucket.Minute(); minute%2 != 0 {
		bucket = bucket.Add(-time.Minute)
	}
	return fmt.Sprintf("%s-%s", deviceID, bucket.Format(bucketMinuteFormat))
}

func (r *mongoRepo) Save(ctx context.Context, m *measurementdomain.Measurement) (*measurementdomain.Measurement, error) {
	doc := measurementDoc{
		DocID:       bucketDocumentID(m.DeviceID, m.RecordedAt),
		ID:          m.ID,
		DeviceID:    int64(m.DeviceID),
		Measurement: m.Measurement,
		RecordedAt:  m.RecordedAt,
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err == nil {
		return m, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}

	// Already recorded inside this bucket; echo the stored reading so the
	// device sees a successful submission rather than an unexplained gap.
	r.log.Info("duplicate measurement submission", zap.String("document_id", doc.DocID))

	var existing measurementDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": doc.DocID}).Decode(&existing); err != nil {
		return nil, err
	}
	return existing.toDomain(), nil
}

func (r *mongoRepo) Range(ctx context.Context, deviceID snowflake.ID, from, to time.Time, limit int) ([]measurementdomain.Measurement, error) {
	filter := bson.M{
		"device_id": int64(deviceID),
		"recorded_at": bson.M{
			"$gt":  from,
			"$lte": to,
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	measurements := []measurementdomain.Measurement{}
	for cursor.Next(ctx) {
		var doc measurementDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		measurements = append(measurements, *doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return measurements, nil
}

func (d *measurementDoc) toDomain() *measurementdomain.Measurement {
	return &measurementdomain.Measurement{
		ID:          d.ID,
		DeviceID:    snowflake.ID(d.DeviceID),
		Measurement: d.Measurement,
		RecordedAt:  d.RecordedAt,
	}
}
