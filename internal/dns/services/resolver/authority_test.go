package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDomainName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"ns1.example.com", true},
		{"ns1.example.com.", true},
		{"a.gtld-servers.net", true},
		{"xn--d1acufc.xn--p1ai", false}, // punycode TLD has digits, not alpha-only per the spec's check
		{"", false},
		{"com", false},                    // no second label
		{"exa mple.com", false},           // embedded space
		{"example.c", false},              // TLD too short
		{"-example.com", false},           // label cannot start with hyphen
		{"example.com-", false},           // TLD cannot end with hyphen
		{"mname rname 1 2 3 4 5", false},  // SOA rdata string form, not a name
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, isValidDomainName(tc.name))
		})
	}
}
