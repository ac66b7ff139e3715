package notif

import (
	"context"
	"fmt"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
	"gotwitter/internal/monitoring"
)

type DatabaseNotificationObserver struct {
	store *dbmysql.Store
}

func NewDatabaseNotificationObserver(store *dbmysql.Store) *DatabaseNotificationObserver {
	return &DatabaseNotificationObserver{
		store: store,
	}
}

func (d *DatabaseNotificationObserver) Name() string {
	return "database_observer"
}

// Update persists the event in a savepoint of its own, so a failed insert
// leaves the surrounding write usable.
func (d *DatabaseNotificationObserver) Update(ctx context.Context, event common.NotificationEvent) error {
	notification := &dbmysql.Notification{
		Kind:        event.Kind,
		ActorID:     event.ActorID,
		RecipientID: event.RecipientID,
		PostID:      event.PostID,
		CreatedAt:   event.CreatedAt,
	}

	err := d.store.Transaction(ctx, func(ctx context.Context) error {
		return d.store.CreateNotification(ctx, notification)
	})
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// MetricsNotificationObserver counts delivered notifications by kind.
type MetricsNotificationObserver struct{}

func NewMetricsNotificationObserver() *MetricsNotificationObserver {
	return &MetricsNotificationObserver{}
}

func (m *MetricsNotificationObserver) Name() string {
	return "metrics_observer"
}

func (m *MetricsNotificationObserver) Update(_ context.Context, event common.NotificationEvent) error {
	monitoring.NotificationsFannedOut.WithLabelValues(event.Kind.String()).Inc()
	return nil
}
