package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Change kinds published on the catalog channel.
const (
	ChangeMovie    = "movie_changed"
	ChangeShowtime = "showtime_changed"
)

type CatalogChange struct {
	Type   string `json:"type"`
	ID     int64  `json:"id"`
	TsUnix int64  `json:"ts_unix"`
}

type CatalogPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewCatalogPubSub(rdb *redis.Client) *CatalogPubSub {
	return &CatalogPubSub{
		rdb:     rdb,
		channel: ChannelCatalogChanged(),
	}
}

func (p *CatalogPubSub) PublishMovieChanged(ctx context.Context, movieID int64) error {
	return p.publish(ctx, ChangeMovie, movieID)
}

func (p *CatalogPubSub) PublishShowtimeChanged(ctx context.Context, showtimeID int64) error {
	return p.publish(ctx, ChangeShowtime, showtimeID)
}

func (p *CatalogPubSub) publish(ctx context.Context, kind string, id int64) error {
	b, _ := json.Marshal(CatalogChange{
		Type:   kind,
		ID:     id,
		TsUnix: time.Now().Unix(),
	})

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe blocks, calling handler for every well-formed change until ctx is done.
func (p *CatalogPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, c CatalogChange)) error {
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
			var c CatalogChange
			if err := json.Unmarshal([]byte(m.Payload), &c); err == nil && c.ID != 0 {
				handler(ctx, c)
			}
		}
	}
}
