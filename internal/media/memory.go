package media

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"gotwitter/internal/common"
)

type memoryBlob struct {
	info common.BlobInfo
	data []byte
}

// MemoryStore keeps blobs in process. It backs MEDIA_BACKEND=memory and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]memoryBlob)}
}

func (m *MemoryStore) Backend() string {
	return "memory"
}

func (m *MemoryStore) Put(ctx context.Context, filename, mimeType string, size int64, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	ref := uuid.NewString()
	m.mu.Lock()
	m.blobs[ref] = memoryBlob{
		info: common.BlobInfo{
			Ref:         ref,
			Filename:    filename,
			ContentType: mimeType,
			Size:        int64(len(data)),
			FileType:    common.DetectFileType(mimeType),
		},
		data: data,
	}
	m.mu.Unlock()
	return ref, nil
}

func (m *MemoryStore) Get(ctx context.Context, ref string) (io.ReadCloser, *common.BlobInfo, error) {
	m.mu.RLock()
	blob, ok := m.blobs[ref]
	m.mu.RUnlock()
	if !ok {
		return nil, nil, common.NotFound("media not found")
	}
	info := blob.info
	return io.NopCloser(bytes.NewReader(blob.data)), &info, nil
}

func (m *MemoryStore) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[ref]; !ok {
		return common.NotFound("media not found")
	}
	delete(m.blobs, ref)
	return nil
}

// Len is the number of stored blobs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
