//go:build integration

package redisstore

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/rolodex/rolodex/internal/repository"
	"github.com/rolodex/rolodex/internal/repository/repotest"
	"github.com/rolodex/rolodex/internal/testutil"
)

func TestIntegrationStoreContract(t *testing.T) {
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	repotest.Run(t, func(t *testing.T) repository.Store {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			t.Fatalf("parse REDIS_URL: %v", err)
		}
		client := redis.NewClient(opt)

		// A fresh prefix per subtest keeps runs isolated without FLUSHDB.
		return NewWithClient(client, testutil.UniqueID("rolodex-test")+":")
	})
}

func TestIntegrationNew_BadURL(t *testing.T) {
	if _, err := New(context.Background(), "://not-a-url", ""); err == nil {
		t.Fatal("expected error for malformed Redis URL")
	}
}
