package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCtx_WithoutLoggerIsDisabled(t *testing.T) {
	logger := FromCtx(context.Background())
	assert.NotNil(t, logger)
	// must not panic
	logger.Info().Msg("dropped")
}

func TestNewContextWithWriter_WritesComponent(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := newContextWithWriter(context.Background(), &buf, true)

	l := WithComponent(ctx, "generator")
	l.Info().Str("provider", "gemini").Msg("provider recovered")
	flush()

	out := buf.String()
	assert.Contains(t, out, "provider recovered")
	assert.Contains(t, out, "component=generator")
	assert.Contains(t, out, "provider=gemini")
}
