package twitter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_UnmarshalKeepsRawAndTyped(t *testing.T) {
	data := []byte(`{
		"created_at": "Thu Jul 31 00:00:00 +0000 2026",
		"id": 42,
		"text": "hello world",
		"truncated": false,
		"user": {"id": 7, "screen_name": "gopher"},
		"entities": {"hashtags": [{"text": "go", "indices": [6, 9]}]},
		"some_future_field": "kept-in-raw-only"
	}`)

	var s Status
	require.NoError(t, json.Unmarshal(data, &s))

	assert.EqualValues(t, 42, s.ID)
	assert.Equal(t, "hello world", s.Text)
	require.NotNil(t, s.User)
	assert.EqualValues(t, 7, s.User.ID)
	require.NotNil(t, s.Entities)
	require.Len(t, s.Entities.HashTags, 1)
	assert.Equal(t, "go", s.Entities.HashTags[0].Text)
	require.NotNil(t, s.Entities.HashTags[0].Indices.Start)
	assert.EqualValues(t, 6, *s.Entities.HashTags[0].Indices.Start)

	assert.Equal(t, "kept-in-raw-only", s.Raw["some_future_field"])
	assert.EqualValues(t, 42, s.Raw["id"])
}

func TestStatus_RetweetedStatusCycle(t *testing.T) {
	data := []byte(`{
		"id": 2,
		"text": "RT @gopher: hi",
		"retweeted_status": {
			"id": 1,
			"text": "hi",
			"user": {"id": 7, "screen_name": "gopher"}
		}
	}`)

	var s Status
	require.NoError(t, json.Unmarshal(data, &s))

	require.NotNil(t, s.RetweetedStatus)
	assert.EqualValues(t, 1, s.RetweetedStatus.ID)
	require.NotNil(t, s.RetweetedStatus.User)
	assert.Equal(t, "gopher", s.RetweetedStatus.User.ScreenName)
}

func TestIndices_MalformedDoesNotFailStatus(t *testing.T) {
	data := []byte(`{"id": 1, "text": "x", "entities": {"hashtags": [{"text": "go", "indices": "nope"}]}}`)

	var s Status
	require.NoError(t, json.Unmarshal(data, &s))

	require.Len(t, s.Entities.HashTags, 1)
	assert.Nil(t, s.Entities.HashTags[0].Indices.Start)
	assert.Nil(t, s.Entities.HashTags[0].Indices.End)
}

func TestUser_ProfileFieldsAndRaw(t *testing.T) {
	data := []byte(`{
		"id": 99,
		"screen_name": "gopher",
		"profile_background_color": "C0DEED",
		"profile_background_tile": true,
		"unexpected": 1
	}`)

	var u User
	require.NoError(t, json.Unmarshal(data, &u))

	assert.Equal(t, "C0DEED", u.ProfileBackgroundColor)
	assert.True(t, u.ProfileBackgroundTile)
	assert.EqualValues(t, 1, u.Raw["unexpected"])
}
