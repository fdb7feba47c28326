package redisx

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "cinemago:v1"

func KeyMovies(group string) string {
	return fmt.Sprintf("%s:movies:%s", ns, group)
}

func KeyMovieDetail(movieID int64) string {
	return fmt.Sprintf("%s:movie:%d:detail", ns, movieID)
}

func KeySeatMap(showtimeID int64) string {
	return fmt.Sprintf("%s:showtime:%d:seatmap", ns, showtimeID)
}

func KeySession(id uuid.UUID) string {
	return fmt.Sprintf("%s:session:%s", ns, id)
}

func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func KeyIdemBooking(account, idemKey string) string {
	return fmt.Sprintf("%s:idem:booking:%s:%s", ns, account, idemKey)
}

func ChannelCatalogChanged() string {
	return ns + ":catalog:changed"
}
