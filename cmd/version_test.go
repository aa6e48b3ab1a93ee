package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestRunVersion(t *testing.T) {
	origVersion, origTime, origCommit := AppVersion, BuildTime, GitCommit
	defer func() {
		AppVersion, BuildTime, GitCommit = origVersion, origTime, origCommit
	}()
	AppVersion = "1.2.3"
	BuildTime = "2026-08-01T00:00:00Z"
	GitCommit = "abc1234"

	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	runVersion(c, nil)

	out := buf.String()
	assert.Contains(t, out, "Mentora v1.2.3")
	assert.Contains(t, out, "2026-08-01T00:00:00Z")
	assert.Contains(t, out, "abc1234")
}

func TestVersionDefaults(t *testing.T) {
	t.Parallel()

	// Without ldflags the binary still reports something sensible.
	assert.NotEmpty(t, AppVersion)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}
