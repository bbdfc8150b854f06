package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/testutil"
)

func TestBlacklistTokenInMemory(t *testing.T) {
	config.Override(testutil.Config())

	assert.False(t, IsTokenBlacklisted("jti-1"))

	BlacklistToken("jti-1", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("jti-1"))
	assert.False(t, IsTokenBlacklisted("jti-2"))

	// already expired tokens need no entry
	BlacklistToken("jti-3", time.Now().Add(-time.Second))
	assert.False(t, IsTokenBlacklisted("jti-3"))

	BlacklistToken("", time.Now().Add(time.Hour))
	assert.False(t, IsTokenBlacklisted(""))
}
