package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	j, err := Open(path)
	require.NoError(t, err)

	key := Key("Ethereum", "deposit", "ETH.ETH", "1000", "=:BTC.BTC:bc1q", "0")
	require.Len(t, key, 64)
	require.NotEqual(t, key, Key("Ethereum", "deposit", "ETH.ETH", "1001", "=:BTC.BTC:bc1q", "0"))

	_, ok, err := j.Get(key)
	require.NoError(t, err)
	require.False(t, ok)

	entry := Entry{
		Key:       key,
		Chain:     "Ethereum",
		Operation: "deposit",
		Asset:     "ETH.ETH",
		Amount:    "1000",
		Memo:      "=:BTC.BTC:bc1q",
		TxHash:    "0xabc",
	}
	require.NoError(t, j.Record(entry))

	err = j.Record(entry)
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Contains(t, err.Error(), "0xabc")

	got, ok, err := j.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0xabc", got.TxHash)
	assert.WithinDuration(t, time.Now(), got.SubmittedAt, time.Minute)
	_, err = uuid.Parse(got.ID)
	require.NoError(t, err)

	// survives reopening
	require.NoError(t, j.Close())
	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, key, entries[0].Key)

	require.NoError(t, j.Forget(key))
	_, ok, err = j.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, j.Record(entry))
}

func TestRecordWithoutKey(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	require.Error(t, j.Record(Entry{TxHash: "0x1"}))
}
