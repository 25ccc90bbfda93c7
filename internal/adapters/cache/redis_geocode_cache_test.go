package cache

import (
	"ae-dashboard-service/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client, time.Hour)

	central := domain.Coordinates{Lon: 114.158, Lat: 22.2819}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"central": central}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"central", "sha tin"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got["central"] != central {
		t.Fatalf("got %+v", got)
	}

	if v, _ := mr.Get("geocode:central"); v != "114.158000,22.281900" {
		t.Fatalf("stored value = %q", v)
	}
	if ttl := mr.TTL("geocode:central"); ttl != time.Hour {
		t.Fatalf("ttl = %s, want 1h", ttl)
	}
}

func TestRedisGeocodeCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client, time.Minute)

	if err := c.PutMany(ctx, map[string]domain.Coordinates{"central": {Lon: 114.158, Lat: 22.2819}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, []string{"central"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expiry, got %+v", got)
	}
}

func TestRedisGeocodeCacheMalformedValue(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client, 0)

	_ = mr.Set("geocode:broken", "not-coordinates")

	if _, err := c.GetMany(context.Background(), []string{"broken"}); err == nil {
		t.Fatal("expected error for malformed cached value")
	}
}

func TestRedisGeocodeCacheUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client, 0)
	mr.Close()

	if _, err := c.GetMany(context.Background(), []string{"central"}); err == nil {
		t.Fatal("expected error when redis is down")
	}
}
