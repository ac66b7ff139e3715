package media

import (
	"context"
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gotwitter/internal/common"
	"gotwitter/internal/monitoring"
)

// BreakerSettings tunes the circuit around a remote blob store.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	OpenTimeout  time.Duration
}

var DefaultBreakerSettings = BreakerSettings{
	MinRequests:  5,
	FailureRatio: 0.6,
	Interval:     time.Minute,
	OpenTimeout:  30 * time.Second,
}

type getResult struct {
	body io.ReadCloser
	info *common.BlobInfo
}

// BreakerStore guards a BlobStore with a circuit breaker. While the circuit is
// open every call fails fast with codes.Unavailable.
type BreakerStore struct {
	next common.BlobStore
	cb   *gobreaker.CircuitBreaker[interface{}]
}

func NewBreakerStore(next common.BlobStore, s BreakerSettings) *BreakerStore {
	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "blobstore-" + next.Backend(),
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("blob store circuit changed state")
		},
		// a missing blob is the caller's problem, not the store's
		IsSuccessful: func(err error) bool {
			return err == nil || status.Code(err) == codes.NotFound
		},
	})
	return &BreakerStore{next: next, cb: cb}
}

func (b *BreakerStore) Backend() string {
	return b.next.Backend()
}

func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	outcome := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
		err = status.Error(codes.Unavailable, "media storage unavailable")
	case status.Code(err) == codes.NotFound:
		outcome = "not_found"
	case err != nil:
		outcome = "failure"
	}
	monitoring.BlobStoreOperations.WithLabelValues(b.next.Backend(), op, outcome).Inc()
	return result, err
}

func (b *BreakerStore) Put(ctx context.Context, filename, mimeType string, size int64, content io.Reader) (string, error) {
	res, err := b.execute("put", func() (interface{}, error) {
		return b.next.Put(ctx, filename, mimeType, size, content)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

func (b *BreakerStore) Get(ctx context.Context, ref string) (io.ReadCloser, *common.BlobInfo, error) {
	res, err := b.execute("get", func() (interface{}, error) {
		body, info, err := b.next.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		return getResult{body: body, info: info}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	got := res.(getResult)
	return got.body, got.info, nil
}

func (b *BreakerStore) Delete(ctx context.Context, ref string) error {
	_, err := b.execute("delete", func() (interface{}, error) {
		return nil, b.next.Delete(ctx, ref)
	})
	return err
}
