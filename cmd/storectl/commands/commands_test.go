package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	loc := time.FixedZone("store", -5*60*60)

	from, to, err := parseDateRange("2026-03-01", "2026-03-31", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, loc), to)

	from, to, err = parseDateRange("2026-03-01", "2026-03-01", loc)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	_, _, err = parseDateRange("2026-03-02", "2026-03-01", loc)
	assert.Error(t, err)

	_, _, err = parseDateRange("03/01/2026", "2026-03-01", loc)
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-3", "abc", ""} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"provision", "status", "seed", "restock", "adjust-stock", "sales-today", "export-sales", "create-user"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestRestockRejectsBadArguments(t *testing.T) {
	tests := [][]string{
		{"restock", "abc", "2"},
		{"restock", "3", "0"},
		{"restock", "3"},
		{"adjust-stock", "3", "one"},
	}

	for _, args := range tests {
		rootCmd.SetArgs(args)
		assert.Error(t, rootCmd.Execute(), args)
	}
}
