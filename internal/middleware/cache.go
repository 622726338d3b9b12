package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tsering10/OP-Final-Project/internal/config"
)

// cachedResponse is the envelope stored in Redis for a cache hit: status,
// headers and body are replayed so clients see the exact original response.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// bodyRecorder tees the response body into a buffer, capped at limit bytes
// so one oversized listing cannot blow up Redis memory.
type bodyRecorder struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	written int64
	limit   int64
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	if br.limit <= 0 || br.written+int64(len(b)) <= br.limit {
		br.buf.Write(b)
	}
	br.written += int64(len(b))
	return br.ResponseWriter.Write(b)
}

// overflowed reports whether the body exceeded the cap; such responses
// are served but never cached.
func (br *bodyRecorder) overflowed() bool {
	return br.limit > 0 && br.written > br.limit
}

func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	parts := []string{r.Method, c.Path()}
	if strings.ToLower(cfg.KeyStrategy) != "route" {
		parts = append(parts, r.URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum)
}

// NewRedisCache caches successful responses on the public browse routes.
// Only methods listed in cfg.Methods participate; everything else, and any
// request when Redis is unavailable, flows straight through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			key := cacheKey(cfg, c)
			if raw, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				var stored cachedResponse
				if json.Unmarshal(raw, &stored) == nil && stored.Status != 0 {
					hdr := c.Response().Header()
					for k, vals := range stored.Header {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							hdr.Add(k, v)
						}
					}
					hdr.Set("X-Cache", "HIT")
					c.Response().WriteHeader(stored.Status)
					_, err := c.Response().Write(stored.Body)
					return err
				}
			}

			rec := &bodyRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && !rec.overflowed() {
				stored := cachedResponse{
					Status: rec.status,
					Header: c.Response().Header().Clone(),
					Body:   rec.buf.Bytes(),
				}
				if payload, err := json.Marshal(stored); err == nil {
					// Detached context: the client may have gone away already.
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}
