package cmd

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionPointerRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	assert.Equal(t, uuid.Nil, activeSession())

	id := uuid.New()
	rememberSession(id)
	assert.Equal(t, id, activeSession())

	other := uuid.New()
	rememberSession(other)
	assert.Equal(t, other, activeSession())

	forgetSession()
	assert.Equal(t, uuid.Nil, activeSession())
}

func TestRememberSession_IgnoresNil(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	id := uuid.New()
	rememberSession(id)
	rememberSession(uuid.Nil)
	assert.Equal(t, id, activeSession())
}

func TestForgetSession_AbsentStateIsFine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	forgetSession()
	assert.Equal(t, uuid.Nil, activeSession())
}
