package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedLoggerWritesComponentAndCaller(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, SetLevel("debug"))
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel("warn")
	})

	NamedLogger("engine").Debug("frame ready")

	out := buf.String()
	assert.Contains(t, out, "component=engine")
	assert.Contains(t, out, "log_test.go")
	assert.Contains(t, out, "frame ready")
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	assert.Error(t, SetLevel("loud"))
}
