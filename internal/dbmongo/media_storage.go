package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotwitter/internal/common"
)

// GridFSStore is a common.BlobStore; refs are GridFS ObjectID hex strings.
type GridFSStore struct {
	gridFS *gridfs.Bucket
	now    common.Clock
}

func NewGridFSStore(db *MediaDB) *GridFSStore {
	return &GridFSStore{
		gridFS: db.Bucket,
		now:    time.Now,
	}
}

func (gs *GridFSStore) Backend() string {
	return "gridfs"
}

func (gs *GridFSStore) Put(ctx context.Context, filename, mimeType string, size int64, content io.Reader) (string, error) {
	metadata := bson.M{
		"file_type":   common.DetectFileType(mimeType).String(),
		"mime_type":   mimeType,
		"uploaded_at": gs.now(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := gs.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	if _, err := io.Copy(stream, content); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("file copy failed: %w", err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return stream.FileID.(primitive.ObjectID).Hex(), nil
}

func (gs *GridFSStore) Get(ctx context.Context, ref string) (io.ReadCloser, *common.BlobInfo, error) {
	objectID, err := parseRef(ref)
	if err != nil {
		return nil, nil, err
	}

	stream, err := gs.gridFS.OpenDownloadStream(objectID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, nil, common.NotFound("media not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	file := stream.GetFile()
	var metadata bson.M
	if file.Metadata != nil {
		_ = bson.Unmarshal(file.Metadata, &metadata)
	}

	mimeType := getStringFromMap(metadata, "mime_type")
	if mimeType == "" {
		mimeType = common.ContentTypeFor(file.Name)
	}
	info := &common.BlobInfo{
		Ref:         ref,
		Filename:    file.Name,
		ContentType: mimeType,
		Size:        file.Length,
		FileType:    common.MediaFileType(getStringFromMap(metadata, "file_type")),
	}
	if !info.FileType.IsValid() {
		info.FileType = common.DetectFileType(mimeType)
	}
	return stream, info, nil
}

func (gs *GridFSStore) Delete(ctx context.Context, ref string) error {
	objectID, err := parseRef(ref)
	if err != nil {
		return err
	}
	err = gs.gridFS.Delete(objectID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return common.NotFound("media not found")
	}
	return err
}

// parseRef rejects refs that cannot name a GridFS file.
func parseRef(ref string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return primitive.NilObjectID, common.NotFound("media not found")
	}
	return objectID, nil
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
