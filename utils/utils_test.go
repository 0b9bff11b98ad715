package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashBytesMatchesConcatenation(t *testing.T) {
	require.Equal(t, HashString("catsdogs"), HashBytes([]byte("cats"), []byte("dogs")))
	require.NotEqual(t, HashString("cats"), HashString("dogs"))
}

func TestRecoverWithError(t *testing.T) {
	run := func() (err error) {
		defer RecoverWithError(&err)
		panic(errors.New("boom"))
	}
	err := run()
	require.EqualError(t, err, "got panic: boom")

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	require.EqualError(t, panicErr.Value.(error), "boom")
}

func TestRecoverWithErrorKeepsResultWithoutPanic(t *testing.T) {
	run := func() (err error) {
		defer RecoverWithError(&err)
		return errors.New("plain failure")
	}
	require.EqualError(t, run(), "plain failure")
}
