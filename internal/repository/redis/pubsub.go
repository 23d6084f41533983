package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/citybus/internal/domain"
)

const (
	TicketBookingConfirmed = "booking_confirmed"
	TicketCatalogSeeded    = "catalog_seeded"
)

// TicketEvent is the message published on the tickets channel.
type TicketEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	BusNumber string `json:"bus_number,omitempty"`
	Seat      int    `json:"seat,omitempty"`
	Fare      int    `json:"fare,omitempty"`
	StopCode  string `json:"stop_code,omitempty"`
	TsUnix    int64  `json:"ts_unix"`
}

type TicketEvents struct {
	rdb     *redis.Client
	channel string
}

func NewTicketEvents(rdb *redis.Client) *TicketEvents {
	return &TicketEvents{
		rdb:     rdb,
		channel: ChannelTickets(),
	}
}

func (p *TicketEvents) PublishBookingConfirmed(ctx context.Context, sessionID string, b domain.Booking) error {
	return p.publish(ctx, TicketEvent{
		Type:      TicketBookingConfirmed,
		SessionID: sessionID,
		BookingID: b.ID,
		BusNumber: b.Bus.Number,
		Seat:      b.SeatNumber,
		Fare:      b.Fare,
		TsUnix:    b.CreatedAt.Unix(),
	})
}

func (p *TicketEvents) PublishCatalogSeeded(ctx context.Context, stopCode string, at time.Time) error {
	return p.publish(ctx, TicketEvent{
		Type:     TicketCatalogSeeded,
		StopCode: stopCode,
		TsUnix:   at.Unix(),
	})
}

func (p *TicketEvents) publish(ctx context.Context, ev TicketEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}

	return nil
}

// Subscribe blocks delivering events to handler until ctx is done or the
// subscription closes. Malformed payloads are skipped.
func (p *TicketEvents) Subscribe(ctx context.Context, handler func(ctx context.Context, ev TicketEvent)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev TicketEvent
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil && ev.Type != "" {
				handler(ctx, ev)
			}
		}
	}
}
