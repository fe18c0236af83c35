package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResult() ResultRecord {
	return ResultRecord{
		ID:              "job_1",
		Company:         "DeepMind",
		Role:            "Senior ML Engineer",
		Hub:             "London",
		Description:     "Build ML infrastructure",
		URL:             "https://careers.example.com/job/1",
		MatchScore:      94.5,
		HireProbability: 87.2,
		DiscoveredAt:    time.Now().UnixMilli(),
	}
}

func TestResultValidate_Valid(t *testing.T) {
	r := validResult()
	assert.NoError(t, r.Validate())
}

func TestResultValidate_ScoreOutOfRange(t *testing.T) {
	r := validResult()
	r.MatchScore = 101
	require.Error(t, r.Validate())

	r = validResult()
	r.HireProbability = -1
	require.Error(t, r.Validate())
}

func TestResultValidate_MissingFields(t *testing.T) {
	for _, mutate := range []func(*ResultRecord){
		func(r *ResultRecord) { r.ID = "" },
		func(r *ResultRecord) { r.Company = "" },
		func(r *ResultRecord) { r.Role = "" },
		func(r *ResultRecord) { r.URL = "" },
	} {
		r := validResult()
		mutate(&r)
		err := r.Validate()
		require.Error(t, err)

		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	}
}

func TestResultValidate_InteractionInvariant(t *testing.T) {
	// interacted without timestamp
	r := validResult()
	r.Interacted = true
	require.Error(t, r.Validate())

	// timestamp without interacted
	r = validResult()
	ms := int64(1000)
	r.LastInteractedAt = &ms
	require.Error(t, r.Validate())

	// both set is valid
	r = validResult()
	r.MarkInteracted(time.UnixMilli(1000))
	assert.NoError(t, r.Validate())
}

func TestMarkViewed_FirstViewWins(t *testing.T) {
	r := validResult()
	r.MarkViewed(time.UnixMilli(1000))
	r.MarkViewed(time.UnixMilli(2000))

	require.NotNil(t, r.ViewedAt)
	assert.Equal(t, int64(1000), *r.ViewedAt)
}
