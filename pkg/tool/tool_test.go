package tool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsUUID(t *testing.T) {
	require.True(t, IsUUID(GenerateUUIDV7()))
	require.False(t, IsUUID(""))
	require.False(t, IsUUID("65f1c0ffee0000000000abcd"))
}

func TestUnixToTimePtr(t *testing.T) {
	require.Nil(t, UnixToTimePtr(0))
	require.Nil(t, UnixMilliToTimePtr(-1))

	got := UnixToTimePtr(1700000000)
	require.NotNil(t, got)
	require.True(t, got.Equal(time.Unix(1700000000, 0)))
	require.Equal(t, time.UTC, got.Location())

	gotMs := UnixMilliToTimePtr(1700000000123)
	require.NotNil(t, gotMs)
	require.Equal(t, int64(1700000000123), gotMs.UnixMilli())
}
