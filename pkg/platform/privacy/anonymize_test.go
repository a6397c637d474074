package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "ipv4 standard", input: "192.168.1.47", expected: "192.168.1.0"},
		{name: "ipv4 already zeroed", input: "10.0.0.0", expected: "10.0.0.0"},
		{name: "ipv4 loopback", input: "127.0.0.1", expected: "127.0.0.0"},
		{name: "ipv4 mapped ipv6", input: "::ffff:203.0.113.9", expected: "203.0.113.0"},
		{name: "ipv6 full", input: "2001:db8:85a3:0000:0000:8a2e:0370:7334", expected: "2001:0db8:85a3::"},
		{name: "ipv6 compressed", input: "2001:db8:85a3::8a2e:370:7334", expected: "2001:0db8:85a3::"},
		{name: "ipv6 loopback", input: "::1", expected: "0000:0000:0000::"},
		{name: "empty", input: "", expected: "unknown"},
		{name: "unknown marker", input: "unknown", expected: "unknown"},
		{name: "garbage", input: "not-an-ip", expected: "invalid"},
		{name: "with port", input: "192.168.1.1:8080", expected: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}

func TestPolicyApply(t *testing.T) {
	t.Run("anonymizing policy truncates", func(t *testing.T) {
		assert.Equal(t, "198.51.100.0", Policy{Anonymize: true}.Apply("198.51.100.23"))
	})

	t.Run("verbatim policy keeps valid addresses", func(t *testing.T) {
		assert.Equal(t, "198.51.100.23", Policy{}.Apply("198.51.100.23"))
	})

	t.Run("verbatim policy never stores garbage", func(t *testing.T) {
		assert.Equal(t, "invalid", Policy{}.Apply("<script>"))
		assert.Equal(t, "unknown", Policy{}.Apply(""))
	})
}
