package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, Version, info.Version)
}

func TestInfoStrings(t *testing.T) {
	info := Info{CommitHash: "0123456789abcdef", BuildTime: "2024-03-01T10:00:00Z", Version: "1.2.0"}

	assert.Equal(t, "0123456", info.Short())
	assert.Equal(t, "vcq 1.2.0", info.Line())
	assert.Equal(t, "vcq 1.2.0 (commit 0123456, built 2024-03-01T10:00:00Z)", info.String())

	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
