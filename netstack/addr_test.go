package netstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHostPort(t *testing.T) {
	cases := []struct {
		addr string
		host string
		port uint16
	}{
		{"10.0.0.9:1883", "10.0.0.9", 1883},
		{"broker.local:8883", "broker.local", 8883},
		{"[fe80::1]:1883", "fe80::1", 1883},
		{"fe80::1:1883", "fe80::1", 1883},
	}
	for _, tc := range cases {
		host, port, err := SplitHostPort(tc.addr)
		require.NoError(t, err, tc.addr)
		assert.Equal(t, tc.host, host)
		assert.Equal(t, tc.port, port)
	}

	for _, bad := range []string{"broker", ":1883", "broker:", "broker:0", "broker:65536", "broker:mqtt"} {
		_, _, err := SplitHostPort(bad)
		assert.Error(t, err, bad)
	}
}
