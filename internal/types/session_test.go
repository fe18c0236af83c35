package types

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearchSession_SnapshotsParameters(t *testing.T) {
	params := StrategicParameters{
		Titles:   []string{"Senior Backend Engineer"},
		Hubs:     []string{"Berlin", "Toronto"},
		Keywords: []string{"Go"},
	}

	session := NewSearchSession(params, nil)

	// Mutating the caller's copy must not change the session snapshot
	params.Titles[0] = "Junior Intern"
	params.Hubs = append(params.Hubs, "Mars")

	assert.Equal(t, "Senior Backend Engineer", session.Parameters.Titles[0])
	assert.Len(t, session.Parameters.Hubs, 2)
}

func TestNewSearchSession_StampsIDAndCreatedAt(t *testing.T) {
	before := time.Now().UnixMilli()
	session := NewSearchSession(StrategicParameters{}, nil)
	after := time.Now().UnixMilli()

	require.NotEmpty(t, session.ID)
	assert.GreaterOrEqual(t, session.CreatedAt, before)
	assert.LessOrEqual(t, session.CreatedAt, after)
}

func TestNewSearchSession_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := NewSearchSession(StrategicParameters{}, nil)
		require.False(t, seen[s.ID], "duplicate session ID: %s", s.ID)
		seen[s.ID] = true
	}
}

// IDs are a global primary key and carry a random suffix after the time
// prefix, so two sessions minted on the same clock tick still differ.
func TestNewSearchSession_IDFormatAndConcurrentUniqueness(t *testing.T) {
	assert.Regexp(t, `^s_\d+_[0-9a-f]{8}$`, NewSearchSession(StrategicParameters{}, nil).ID)

	const n = 64
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewSearchSession(StrategicParameters{}, nil).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		require.False(t, seen[id], "duplicate session ID: %s", id)
		seen[id] = true
	}
}

func TestNewSearchSession_PreservesResultOrder(t *testing.T) {
	results := []ResultRecord{
		{ID: "a", HireProbability: 10},
		{ID: "b", HireProbability: 99},
		{ID: "c", HireProbability: 50},
	}

	session := NewSearchSession(StrategicParameters{}, results)

	require.Len(t, session.Results, 3)
	assert.Equal(t, "a", session.Results[0].ID)
	assert.Equal(t, "b", session.Results[1].ID)
	assert.Equal(t, "c", session.Results[2].ID)
}

func TestRecordInteraction_SetsFlagAndTimestamp(t *testing.T) {
	session := NewSearchSession(StrategicParameters{}, []ResultRecord{{ID: "a"}})

	at := time.UnixMilli(1000)
	err := session.RecordInteraction("a", at)
	require.NoError(t, err)

	result, err := session.Result("a")
	require.NoError(t, err)
	assert.True(t, result.Interacted)
	require.NotNil(t, result.LastInteractedAt)
	assert.Equal(t, int64(1000), *result.LastInteractedAt)
}

func TestRecordInteraction_Idempotent(t *testing.T) {
	session := NewSearchSession(StrategicParameters{}, []ResultRecord{{ID: "a"}})

	require.NoError(t, session.RecordInteraction("a", time.UnixMilli(1000)))
	require.NoError(t, session.RecordInteraction("a", time.UnixMilli(2000)))

	result, err := session.Result("a")
	require.NoError(t, err)
	assert.True(t, result.Interacted)
	assert.Equal(t, int64(2000), *result.LastInteractedAt)
}

func TestRecordInteraction_MissingResult(t *testing.T) {
	session := NewSearchSession(StrategicParameters{}, []ResultRecord{{ID: "a"}})

	err := session.RecordInteraction("missing-id", time.UnixMilli(1000))
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "result", notFound.Kind)

	// Profile state unchanged
	result, err := session.Result("a")
	require.NoError(t, err)
	assert.False(t, result.Interacted)
	assert.Nil(t, result.LastInteractedAt)
}
