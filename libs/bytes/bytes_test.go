package bytes

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	bz := []byte("hello world")
	dataB := HexBytes(bz)

	bz2, err := json.Marshal(dataB)
	require.NoError(t, err)
	assert.Equal(t, `"68656c6c6f20776f726c64"`, string(bz2))

	var dataB2 HexBytes
	err = json.Unmarshal(bz2, &dataB2)
	require.NoError(t, err)
	assert.Equal(t, dataB, dataB2)
}

// Test 0x-prefixed and uppercase input both decode.
func TestUnmarshalVariants(t *testing.T) {
	cases := []struct {
		input string
		want  HexBytes
	}{
		{`"0xdeadbeef"`, HexBytes{0xde, 0xad, 0xbe, 0xef}},
		{`"DEADBEEF"`, HexBytes{0xde, 0xad, 0xbe, 0xef}},
		{`""`, nil},
	}
	for _, tc := range cases {
		var got HexBytes
		err := json.Unmarshal([]byte(tc.input), &got)
		require.NoError(t, err, "input %s", tc.input)
		assert.Equal(t, tc.want, got)
	}

	var bad HexBytes
	err := json.Unmarshal([]byte(`"not-hex"`), &bad)
	require.Error(t, err)
}

func TestHexBytes_String(t *testing.T) {
	hs := HexBytes([]byte("test me"))
	if _, err := fmt.Sscanf(hs.String(), "%s", &hs); err != nil {
		t.Fatal(err)
	}
}
