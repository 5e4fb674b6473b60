package credential

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/trainadmin/internal/model"
)

func TestTokensRoundTrip(t *testing.T) {
	s := NewMemory()

	_, err := s.LoadTokens()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.SaveTokens(model.Tokens{AccessToken: "a", RefreshToken: "r"}))
	tokens, err := s.LoadTokens()
	require.NoError(t, err)
	assert.Equal(t, model.Tokens{AccessToken: "a", RefreshToken: "r"}, tokens)

	require.NoError(t, s.ClearTokens())
	require.NoError(t, s.ClearTokens())
	_, err = s.LoadTokens()
	assert.True(t, errors.Is(err, ErrNotFound))
}
