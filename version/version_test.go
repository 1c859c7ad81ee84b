package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	assert.Equal(t, "dev", GetFullVersion())

	old := [3]string{Version, GitCommit, BuildDate}
	t.Cleanup(func() { Version, GitCommit, BuildDate = old[0], old[1], old[2] })

	Version, GitCommit, BuildDate = "v1.2.0", "abc123", "2025-01-02"
	assert.Equal(t, "v1.2.0", GetVersion())
	assert.Equal(t, "v1.2.0 (commit abc123, built 2025-01-02)", GetFullVersion())
}
