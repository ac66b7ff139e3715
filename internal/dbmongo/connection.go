// Package dbmongo keeps uploaded media in MongoDB GridFS.
package dbmongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotwitter/internal/config"
)

// MediaBucket names the GridFS bucket holding tweet attachments.
const MediaBucket = "tweet_media"

const dialTimeout = 10 * time.Second

// MediaDB is an open connection to the media database and its attachment bucket.
type MediaDB struct {
	client *mongo.Client
	Bucket *gridfs.Bucket
}

// OpenMediaDB connects to the configured MongoDB and opens MediaBucket. It
// fails unless the server answers a ping within dialTimeout.
func OpenMediaDB(ctx context.Context, c *config.Config) (*MediaDB, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.GetMongoURI()))
	if err != nil {
		return nil, fmt.Errorf("cannot reach media store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("media store did not answer ping: %w", err)
	}

	bucket, err := gridfs.NewBucket(client.Database(c.MongoDB.Database), options.GridFSBucket().SetName(MediaBucket))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("cannot open media bucket %s: %w", MediaBucket, err)
	}
	return &MediaDB{client: client, Bucket: bucket}, nil
}

func (m *MediaDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
