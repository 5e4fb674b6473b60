package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorAndBusyRendering(t *testing.T) {
	m := New(80, 24)
	m.Start()
	m.SetError("Invalid credentials")
	assert.Contains(t, m.View(), "Invalid credentials")

	m.SetBusy(true)
	assert.Contains(t, m.View(), "Signing in...")

	m.fb.mode = ModeSignUp
	assert.Contains(t, m.View(), "Creating account...")
}

func TestStartKeepsEmailAndClearsPassword(t *testing.T) {
	m := New(80, 24)
	m.fb.email = "ops@example.com"
	m.fb.password = "secret"
	m.SetBusy(true)

	m.Start()
	assert.Equal(t, "ops@example.com", m.fb.email)
	assert.Empty(t, m.fb.password)
	assert.NotContains(t, m.View(), "Signing in...")
}

func TestRequired(t *testing.T) {
	assert.EqualError(t, required("Email")(" "), "Email is required")
	assert.NoError(t, required("Email")("a@b.c"))
}
