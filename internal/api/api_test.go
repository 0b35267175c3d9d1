package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodecRoundTrip(t *testing.T) {
	in := &StatusResponse{
		Version:   "dev",
		Backend:   "memory",
		Entries:   2,
		Capacity:  50,
		Interval:  time.Second,
		StartedAt: time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC),
	}
	b, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	var out StatusResponse
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	assert.Equal(t, *in, out)
}

func TestCodecUnmarshalError(t *testing.T) {
	var out ListResponse
	err := Codec{}.Unmarshal([]byte("{not json"), &out)
	assert.ErrorContains(t, err, "json codec unmarshal")
}

func TestEntries(t *testing.T) {
	assert.Equal(t, []Entry{{0, "c"}, {1, "b"}}, Entries([]string{"c", "b"}))
	assert.Empty(t, Entries(nil))
}
