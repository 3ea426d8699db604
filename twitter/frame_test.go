package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDecoder_SingleDatagram(t *testing.T) {
	var got [][]byte
	var keepAlives int
	d := newFrameDecoder(func(b []byte) { got = append(got, b) }, func() { keepAlives++ })

	payload := []byte(`{"text":"hi"}`)
	msg := append([]byte("13\r\n"), payload...)
	d.Feed(msg)

	require.Len(t, got, 1)
	assert.Equal(t, payload, got[0])
	assert.Equal(t, 0, keepAlives)
}

func TestFrameDecoder_KeepAlive(t *testing.T) {
	var datagrams int
	var keepAlives int
	d := newFrameDecoder(func([]byte) { datagrams++ }, func() { keepAlives++ })

	d.Feed([]byte("\r\n\r\n\r\n"))

	assert.Equal(t, 0, datagrams)
	assert.Equal(t, 3, keepAlives)
}

func TestFrameDecoder_SplitAcrossFeeds(t *testing.T) {
	var got [][]byte
	d := newFrameDecoder(func(b []byte) { got = append(got, b) }, func() {})

	payload := []byte(`{"text":"split across calls"}`)
	header := []byte("29\r\n")

	d.Feed(header[:2])
	d.Feed(header[2:])
	d.Feed(payload[:10])
	d.Feed(payload[10:])

	require.Len(t, got, 1)
	assert.Equal(t, payload, got[0])
}

func TestFrameDecoder_BackToBackDatagramsAndRemainder(t *testing.T) {
	var got [][]byte
	d := newFrameDecoder(func(b []byte) { got = append(got, b) }, func() {})

	first := []byte(`{"a":1}`)
	second := []byte(`{"b":22}`)
	buf := append([]byte("7\r\n"), first...)
	buf = append(buf, []byte("8\r\n")...)
	buf = append(buf, second...)

	d.Feed(buf)

	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, second, got[1])
}

func TestFrameDecoder_NonDigitLineIsKeepAlive(t *testing.T) {
	var datagrams int
	var keepAlives int
	d := newFrameDecoder(func([]byte) { datagrams++ }, func() { keepAlives++ })

	d.Feed([]byte("not-a-length\r\n"))

	assert.Equal(t, 0, datagrams)
	assert.Equal(t, 1, keepAlives)
}

func TestParseDigits(t *testing.T) {
	n, ok := parseDigits([]byte("42"))
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = parseDigits([]byte("4a"))
	assert.False(t, ok)

	_, ok = parseDigits([]byte(""))
	assert.False(t, ok)
}
