package cup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cupsnap/cup/pkg/node"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, node.ScopeForeground, cfg.scope)
	assert.Equal(t, node.DetailStandard, cfg.detail)
	assert.Equal(t, 30*time.Second, cfg.timeout)
	assert.Equal(t, 5, cfg.searchLimit)
	assert.Equal(t, 0.15, cfg.searchThresh)
}

func TestOptionsApplyOverDefaults(t *testing.T) {
	cfg := defaultConfig()
	opts := []Option{
		WithScope(node.ScopeFull),
		WithDetail(node.DetailMinimal),
		WithMaxDepth(3),
		WithMaxChars(1000),
		WithCDPHost("example.test"),
		WithCDPPort(1234),
		WithTimeout(5 * time.Second),
		WithSearchLimit(10),
		WithSearchThreshold(0.5),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	assert.Equal(t, node.ScopeFull, cfg.scope)
	assert.Equal(t, node.DetailMinimal, cfg.detail)
	assert.Equal(t, 3, cfg.maxDepth)
	assert.Equal(t, 1000, cfg.maxChars)
	assert.Equal(t, "example.test", cfg.cdpHost)
	assert.Equal(t, 1234, cfg.cdpPort)
	assert.Equal(t, 5*time.Second, cfg.timeout)
	assert.Equal(t, 10, cfg.searchLimit)
	assert.Equal(t, 0.5, cfg.searchThresh)
}

func TestEnvOrFallback(t *testing.T) {
	assert.Equal(t, "fallback", envOr("CUP_TEST_UNSET_VAR", "fallback"))
}

func TestEnvOrUsesEnvironment(t *testing.T) {
	t.Setenv("CUP_TEST_VAR", "from-env")
	assert.Equal(t, "from-env", envOr("CUP_TEST_VAR", "fallback"))
}
