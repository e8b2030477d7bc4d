package pgconfig_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/outrigger-db/pgparam/pgconfig"
)

func TestNewDefaults(t *testing.T) {
	cfg := pgconfig.New()

	assert.False(t, cfg.EnableInfinityConversions)
	assert.Equal(t, 30*time.Second, cfg.DefaultCommandTimeout)
	assert.Equal(t, 128, cfg.MaxPoolSize)
	assert.NotNil(t, cfg.Logger)
}

func TestOptionsApplyInOrder(t *testing.T) {
	cfg := pgconfig.New(
		pgconfig.EnableInfinityConversions(true),
		pgconfig.DefaultCommandTimeout(5*time.Second),
		pgconfig.MaxPoolSize(4),
	)

	assert.True(t, cfg.EnableInfinityConversions)
	assert.Equal(t, 5*time.Second, cfg.DefaultCommandTimeout)
	assert.Equal(t, 4, cfg.MaxPoolSize)
}

func TestMaxPoolSizeIgnoresNonPositive(t *testing.T) {
	cfg := pgconfig.New(pgconfig.MaxPoolSize(0))
	assert.Equal(t, 128, cfg.MaxPoolSize)
}
