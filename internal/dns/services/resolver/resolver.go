// Package resolver implements the iterative recursive resolution engine
// (the root-to-authority walker) described for component C6: given a
// request message, it resolves each question independently, consulting the
// answer cache first and falling back to a bounded iterative walk against
// the root hints otherwise.
package resolver

import (
	"context"
	"fmt"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
	"go.uber.org/multierr"
)

// Resolver is the C6 engine. It depends only on narrow interfaces so it
// can be exercised with fakes in tests, independent of the real UDP
// transport, cache backend, or bloom filter.
type Resolver struct {
	client    Client
	cache     AnswerCache
	negFilter NegativeFilter
	logger    log.Logger
}

// Options bundles Resolver's collaborators for construction.
type Options struct {
	Client    Client
	Cache     AnswerCache
	NegFilter NegativeFilter
	Logger    log.Logger
}

// NewResolver constructs a Resolver. NegFilter may be nil, in which case a
// no-op filter is used (the glue-retry feature is purely a latency/logging
// optimization and must never be required for correctness).
func NewResolver(opts Options) *Resolver {
	negFilter := opts.NegFilter
	if negFilter == nil {
		negFilter = noopFilter{}
	}
	return &Resolver{
		client:    opts.Client,
		cache:     opts.Cache,
		negFilter: negFilter,
		logger:    opts.Logger,
	}
}

// Resolve implements the top-level resolve(request) -> Message contract.
// Each question in the request is resolved independently and serially;
// the first response is returned, matching the original system's
// single-question behavior (see spec notes on multi-question requests).
func (r *Resolver) Resolve(ctx context.Context, request domain.Message) domain.Message {
	var first *domain.Message
	var aggregate error
	for _, question := range request.Questions {
		resp, err := r.resolveQuestion(ctx, request, question)
		aggregate = multierr.Append(aggregate, err)
		if first == nil {
			respCopy := resp
			first = &respCopy
		}
	}
	if aggregate != nil {
		r.logger.Debug(map[string]any{
			"request_id": request.Header.ID,
			"error":      aggregate.Error(),
		}, "resolve completed with per-question failures")
	}
	if first == nil {
		return domain.NameError(request)
	}
	return *first
}

// resolveQuestion consults the cache, falling back to a bounded lookup and
// populating the cache on a successful, non-empty NOERROR result. The
// returned error is non-nil whenever the lookup produced anything short of
// a usable answer; it carries no information beyond what is already in the
// returned Message's RCode and exists purely so Resolve can aggregate
// per-question failures with multierr for a single debug log line.
func (r *Resolver) resolveQuestion(ctx context.Context, request domain.Message, question domain.Question) (domain.Message, error) {
	if cached, ok := r.cache.Get(question); ok {
		resp := domain.Message{Header: request.Header}
		resp.Header.QR = true
		resp.Header.RA = true
		resp.Questions = []domain.Question{question}
		resp.Answers = cached
		resp.Header = resp.WithCounts()
		return resp, nil
	}

	subquery := domain.Message{Header: request.Header}
	subquery.Questions = []domain.Question{question}
	subquery.Header.QDCount = 1

	result := r.lookup(ctx, subquery, newBudget())
	if result.Header.RCode != domain.RCode(0) || len(result.Answers) == 0 {
		return result, fmt.Errorf("question %s %s: rcode %d", question.Name, question.Type, result.Header.RCode)
	}
	r.cache.Set(question, result.Answers)
	return result, nil
}
