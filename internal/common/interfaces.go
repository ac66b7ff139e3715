package common

import (
	"context"
	"io"
)

// Observer receives every notification produced by fan-out. Update runs inside the
// write transaction, so a returned error is logged by the subject and never aborts it.
type Observer interface {
	Update(ctx context.Context, event NotificationEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(ctx context.Context, event NotificationEvent)
}

// BlobStore holds uploaded media. Refs are opaque to callers.
type BlobStore interface {
	Put(ctx context.Context, filename, mimeType string, size int64, content io.Reader) (ref string, err error)
	Get(ctx context.Context, ref string) (io.ReadCloser, *BlobInfo, error)
	Delete(ctx context.Context, ref string) error
	Backend() string
}

type BlobInfo struct {
	Ref         string
	Filename    string
	ContentType string
	Size        int64
	FileType    MediaFileType
}
