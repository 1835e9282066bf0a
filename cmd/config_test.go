package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := characterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	// Multi-byte runes are a single character
	r, err = characterRune("█")
	req.NoError(err)
	req.Equal('█', r)

	_, err = characterRune("")
	req.Error(err)
	_, err = characterRune("**")
	req.Error(err)
}
