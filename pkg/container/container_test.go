package container

import (
	"context"
	"testing"

	infraCache "marketplace-backend/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
)

func TestConnectCache_UnreachableRedis(t *testing.T) {
	rc := infraCache.NewRedisCache("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	got := connectCache(context.Background(), rc)
	assert.Nil(t, got)
}
