package runtime

import (
	"testing"

	"github.com/aretw0/qtext/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNewEngine_DefaultLogger(t *testing.T) {
	e, _ := newTestEngine()
	assert.Same(t, logging.NewNop(), e.logger)

	logger := logging.NewNop().With("component", "toolbar")
	e, _ = newTestEngine(WithLogger(logger))
	assert.Same(t, logger, e.logger)
}
