package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectDecoder_DeliversStatus(t *testing.T) {
	var got *Status
	d := newObjectDecoder(nil, nil, func(s *Status) { got = s })

	d.Decode([]byte(`{"id": 5, "text": "hello"}`))

	require.NotNil(t, got)
	assert.EqualValues(t, 5, got.ID)
}

func TestObjectDecoder_DropsNonStatusObjects(t *testing.T) {
	var calls int
	d := newObjectDecoder(nil, nil, func(*Status) { calls++ })

	d.Decode([]byte(`{"friends": [1, 2, 3]}`))

	assert.Equal(t, 0, calls)
}

func TestObjectDecoder_DropsMalformedJSON(t *testing.T) {
	var calls int
	d := newObjectDecoder(nil, nil, func(*Status) { calls++ })

	d.Decode([]byte(`{not json`))

	assert.Equal(t, 0, calls)
}

func TestObjectDecoder_RecoversFromDelegatePanic(t *testing.T) {
	d := newObjectDecoder(nil, nil, func(*Status) { panic("boom") })

	assert.NotPanics(t, func() {
		d.Decode([]byte(`{"id": 1, "text": "x"}`))
	})
}
