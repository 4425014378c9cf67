package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/util"
)

func TestRevisionStoreOrdersByIssueTimestamp(t *testing.T) {
	store := &RevisionStore{Root: t.TempDir()}

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, util.ProviderLocation())
	morning := time.Date(2024, 3, 4, 7, 0, 0, 0, util.ProviderLocation())
	later := time.Date(2024, 3, 4, 7, 45, 0, 0, util.ProviderLocation())

	// Saved newest first to make sure ordering comes from the timestamps,
	// not from insertion order.
	require.NoError(t, store.Save(testDocument(date, later, "6c")))
	require.NoError(t, store.Save(testDocument(date, morning, "7a")))

	revisions, err := store.Revisions(date)
	require.NoError(t, err)
	require.Len(t, revisions, 2)

	assert.True(t, revisions[0].IssuedAt.Equal(morning))
	assert.True(t, revisions[1].IssuedAt.Equal(later))

	latest, err := store.Latest(date)
	require.NoError(t, err)
	assert.True(t, latest.IssuedAt.Equal(later))
	assert.Contains(t, latest.Forms, "6c")
}

func TestRevisionStoreEmptyDay(t *testing.T) {
	store := &RevisionStore{Root: t.TempDir()}

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, util.ProviderLocation())

	latest, err := store.Latest(date)
	require.NoError(t, err)
	assert.Nil(t, latest)

	revisions, err := store.Revisions(date)
	require.NoError(t, err)
	assert.Empty(t, revisions)
}
