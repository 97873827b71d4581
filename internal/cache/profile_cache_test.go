package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/referral-service/internal/domain"
)

func TestNewProfileCache_DisabledWithoutClientOrTTL(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewProfileCache(nil, 30*time.Second))
}

func TestProfileCache_NilIsSafe(t *testing.T) {
	t.Parallel()

	var c *ProfileCache
	ctx := context.Background()

	_, ok := c.Get(ctx, "acc-1")
	assert.False(t, ok)

	// Set and Invalidate must be no-ops, not panics.
	c.Set(ctx, "acc-1", domain.Profile{ID: "acc-1", Name: "Maria"})
	c.Invalidate(ctx, "acc-1")
}
