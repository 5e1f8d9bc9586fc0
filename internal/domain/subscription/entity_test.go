package subscription

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var frozen = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func TestSubscriptionIsActive(t *testing.T) {
	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "active within window",
			sub:  Subscription{Status: StatusActive, EndsAt: nullTime(frozen.AddDate(0, 1, 0))},
			want: true,
		},
		{
			name: "active but window elapsed",
			sub:  Subscription{Status: StatusActive, EndsAt: nullTime(frozen.Add(-time.Minute))},
			want: false,
		},
		{
			name: "active ending exactly now",
			sub:  Subscription{Status: StatusActive, EndsAt: nullTime(frozen)},
			want: false,
		},
		{
			name: "active with no ends_at",
			sub:  Subscription{Status: StatusActive},
			want: false,
		},
		{
			name: "pending with future ends_at",
			sub:  Subscription{Status: StatusPending, EndsAt: nullTime(frozen.AddDate(0, 1, 0))},
			want: false,
		},
		{
			name: "cancelled with future ends_at",
			sub:  Subscription{Status: StatusCancelled, EndsAt: nullTime(frozen.AddDate(0, 1, 0))},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsActive(frozen))
		})
	}
}

func TestSubscriptionIsExpired(t *testing.T) {
	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "stored status already expired",
			sub:  Subscription{Status: StatusExpired},
			want: true,
		},
		{
			name: "active past ends_at lags the sweeper",
			sub:  Subscription{Status: StatusActive, EndsAt: nullTime(frozen.Add(-time.Hour))},
			want: true,
		},
		{
			name: "active within window",
			sub:  Subscription{Status: StatusActive, EndsAt: nullTime(frozen.Add(time.Hour))},
			want: false,
		},
		{
			name: "pending never expires",
			sub:  Subscription{Status: StatusPending, EndsAt: nullTime(frozen.Add(-time.Hour))},
			want: false,
		},
		{
			name: "cancelled is not expired",
			sub:  Subscription{Status: StatusCancelled, EndsAt: nullTime(frozen.Add(-time.Hour))},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsExpired(frozen))
		})
	}
}

func TestSubscriptionIsExpiringSoon(t *testing.T) {
	active := func(endsAt time.Time) Subscription {
		return Subscription{Status: StatusActive, EndsAt: nullTime(endsAt)}
	}

	sub := active(frozen.AddDate(0, 0, 3))
	assert.True(t, sub.IsExpiringSoon(frozen, 7))

	sub = active(frozen.AddDate(0, 0, 10))
	assert.False(t, sub.IsExpiringSoon(frozen, 7))

	// Already lapsed means not "expiring soon"; the expiry path handles it.
	sub = active(frozen.Add(-time.Hour))
	assert.False(t, sub.IsExpiringSoon(frozen, 7))

	sub = Subscription{Status: StatusPending, EndsAt: nullTime(frozen.AddDate(0, 0, 3))}
	assert.False(t, sub.IsExpiringSoon(frozen, 7))
}
