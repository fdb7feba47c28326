package httpgin

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/cinemago/internal/cybersoft"
)

// cachePolicy is the Cache-Control value for a class of read endpoints.
// Catalog data is shared between users, seat maps change as tickets sell.
type cachePolicy string

const (
	cacheCatalog cachePolicy = "public, max-age=60"
	cacheSeatMap cachePolicy = "private, max-age=30"
)

// writeCachedJSON writes v with a weak ETag over its encoding and answers 304
// when the client already holds that representation.
func writeCachedJSON(c *gin.Context, v any, policy cachePolicy) {
	b, err := json.Marshal(v)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: cybersoft.MsgUnknownError})
		return
	}

	sum := sha256.Sum256(b)
	tag := `W/"` + hex.EncodeToString(sum[:16]) + `"`

	c.Header("ETag", tag)
	c.Header("Cache-Control", string(policy))
	if policy == cacheSeatMap {
		c.Header("Vary", HeaderSessionID)
	}

	if etagMatches(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

// etagMatches applies the weak comparison of If-None-Match, which may carry
// a list of tags or "*".
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	opaque := strings.TrimPrefix(tag, "W/")
	for _, cand := range strings.Split(header, ",") {
		cand = strings.TrimSpace(cand)
		if cand == "*" || strings.TrimPrefix(cand, "W/") == opaque {
			return true
		}
	}
	return false
}
