package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type testRedisConfig struct {
	url string
}

func (c testRedisConfig) GetRedisURL() string       { return c.url }
func (c testRedisConfig) GetRedisTLSInsecure() bool { return false }

func TestNewClientPingsServer(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := NewClient(context.Background(), testRedisConfig{url: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), Key("t", "a", "b"), "1", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("t:a:b") {
		t.Fatal("expected key t:a:b to exist")
	}
}

func TestNewClientNotConfigured(t *testing.T) {
	_, err := NewClient(context.Background(), testRedisConfig{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestParseOptionsInsecureTLS(t *testing.T) {
	opt, err := ParseOptions("rediss://cache.internal:6380/2", true)
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config")
	}
	if opt.DB != 2 {
		t.Fatalf("db = %d, want 2", opt.DB)
	}
}
