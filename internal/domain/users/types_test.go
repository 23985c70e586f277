package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndCompare(t *testing.T) {
	var p password

	require.NoError(t, p.Set("correct horse battery staple"))
	require.NotEmpty(t, p.Hash())

	assert.NoError(t, p.Compare("correct horse battery staple"))
	assert.Error(t, p.Compare("wrong password"))
}

func TestPasswordHashIsNotPlaintext(t *testing.T) {
	var p password

	require.NoError(t, p.Set("secret123"))
	assert.NotEqual(t, []byte("secret123"), p.Hash())
}
