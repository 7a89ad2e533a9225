package resolver

import (
	"context"
	"time"

	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// Client is the C4 collaborator: a single-attempt UDP exchange against one
// upstream server. Resolver never retransmits on its own behalf; retrying
// across servers is the iterative walk's job, not the transport's.
type Client interface {
	Query(ctx context.Context, query domain.Message, host string, port int, timeout time.Duration) (domain.Message, error)
}

// AnswerCache is the C5 collaborator.
type AnswerCache interface {
	Get(q domain.Question) ([]domain.ResourceRecord, bool)
	Set(q domain.Question, answers []domain.ResourceRecord)
}

// NegativeFilter is the soft, non-authoritative hint described by the
// negative-result short-circuit: a membership test never gates whether a
// name gets resolved, only whether the bounded glue-retry widening (see
// handleAuthorities) is attempted at all.
type NegativeFilter interface {
	Record(key string)
	MightHaveFailed(key string) bool
}

// noopFilter satisfies NegativeFilter without recording anything, used
// when a Resolver is constructed with no filter configured.
type noopFilter struct{}

func (noopFilter) Record(string)              {}
func (noopFilter) MightHaveFailed(string) bool { return false }
