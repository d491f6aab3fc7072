package inventoryapi

import (
	"context"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
)

// Notifications lists notifications, paginated.
func (a *API) Notifications(ctx context.Context, page, size int) (*Page[domain.Notification], error) {
	var out Page[domain.Notification]
	if err := a.c.Get(ctx, "/api/notifications", &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnreadNotifications lists unread notifications, paginated.
func (a *API) UnreadNotifications(ctx context.Context, page, size int) (*Page[domain.Notification], error) {
	var out Page[domain.Notification]
	if err := a.c.Get(ctx, "/api/notifications/unread", &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnreadCount returns the number of unread notifications.
func (a *API) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := a.c.Get(ctx, "/api/notifications/unread/count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkRead marks one notification read.
func (a *API) MarkRead(ctx context.Context, notificationID string) error {
	return a.c.Put(ctx, "/api/notifications/"+notificationID+"/read", nil, nil)
}

// MarkAllRead marks every notification read.
func (a *API) MarkAllRead(ctx context.Context) error {
	return a.c.Put(ctx, "/api/notifications/read-all", nil, nil)
}
