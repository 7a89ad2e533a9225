package resolver

import (
	"math/rand"

	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// randomRootHint picks a uniformly random entry from the compiled-in root
// hints, giving every fresh iterative walk a different entry point.
func randomRootHint() domain.RootHint {
	return domain.RootHints[rand.Intn(len(domain.RootHints))]
}
