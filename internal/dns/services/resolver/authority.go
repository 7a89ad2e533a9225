package resolver

import (
	"regexp"
	"strings"

	"github.com/nullhorizon/recon-dns/internal/dns/common/utils"
)

// domainNamePattern enforces the domain-validity check used when promoting
// an NS target or SOA owner name to a candidate next hop: dot-separated
// alphanumeric-and-hyphen labels of at most 63 octets each, with a final
// label (the TLD) of at least two alphabetic characters.
var domainNamePattern = regexp.MustCompile(`^(?:[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z]{2,}\.?$`)

// isValidDomainName reports whether name is structurally plausible as a
// resolvable host name. The regex shape check decides: it already rejects
// single-label names. The publicsuffix-backed apex lookup that follows
// falls back to the name itself when no apex can be derived, so it is
// non-empty for every name the regex accepts; names whose final label is
// not a listed public suffix are accepted.
func isValidDomainName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if !domainNamePattern.MatchString(name) {
		return false
	}
	return utils.GetApexDomain(name) != ""
}
