package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivityAndCooldown(t *testing.T) {
	f := New(10 * time.Millisecond)
	assert.False(t, f.Hot())

	f.SignalActivity()
	assert.True(t, f.Hot())

	f.PollCooldown()
	assert.True(t, f.Hot(), "still inside the cooldown")

	time.Sleep(25 * time.Millisecond)
	f.PollCooldown()
	assert.False(t, f.Hot())
}

func TestShutdown(t *testing.T) {
	f := New(time.Second)
	assert.False(t, f.Stopped())
	f.Shutdown()
	assert.True(t, f.Stopped())
	f.Shutdown()
	assert.True(t, f.Stopped())
}

func TestGlobalFlags(t *testing.T) {
	assert.Same(t, Global(), Global())
	SignalActivity()
	assert.True(t, Global().Hot())
	PollCooldown()
	assert.True(t, Global().Hot())
}
