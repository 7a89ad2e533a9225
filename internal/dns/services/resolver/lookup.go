package resolver

import (
	"context"
	"math/rand"

	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// lookup performs the iterative root-to-authority walk for a single-question
// query, starting from a uniformly random root hint. It is itself called
// recursively for CNAME follow-ups and for resolving a glue-less
// authority's A record, both charged against the shared budget.
func (r *Resolver) lookup(ctx context.Context, query domain.Message, b *budget) domain.Message {
	question := query.Questions[0]
	nextServerIP := randomRootHint().IPv4
	queriedName := question.Name

	for iter := 0; iter < maxOuterIterations; iter++ {
		if b.expired() {
			return domain.NameError(query)
		}

		resp, err := r.client.Query(ctx, query, nextServerIP, upstreamPort, 0)
		if err != nil {
			r.logger.Debug(map[string]any{
				"server":       nextServerIP,
				"queried_name": queriedName,
				"question":     question.Name,
				"error":        err.Error(),
			}, "lookup: upstream exchange failed, returning NAME_ERROR")
			return domain.NameError(query)
		}

		if resp.Header.RCode == nxdomainRCode {
			out := resp
			out.Header.QR = true
			out.Header.AA = false
			out.Header.RA = true
			out.Header.RCode = nxdomainRCode
			return out
		}

		if len(resp.Answers) > 0 {
			return r.handleAnswers(ctx, query, question, resp, b)
		}

		if glue := filterGlue(resp.Additionals); len(glue) > 0 {
			chosen := glue[rand.Intn(len(glue))]
			nextServerIP = chosen.RData.String()
			queriedName = chosen.Name
			continue
		}

		if len(resp.Authorities) > 0 {
			nextIP, nextName, final := r.handleAuthorities(ctx, query, resp, b)
			if final != nil {
				return *final
			}
			nextServerIP = nextIP
			queriedName = nextName
			continue
		}

		return nameErrorCarryingAuthorities(query, resp.Authorities)
	}
	return domain.NameError(query)
}

// nxdomainRCode is domain.RCode(3), the NXDOMAIN/NAME_ERROR response code.
const nxdomainRCode = domain.RCode(3)

// handleAnswers implements step (d): collect the upstream's answers,
// chasing any CNAME in them with a recursive (target, CNAME, IN) lookup
// when the client did not itself ask for CNAME.
func (r *Resolver) handleAnswers(ctx context.Context, query domain.Message, question domain.Question, resp domain.Message, b *budget) domain.Message {
	answers := append([]domain.ResourceRecord(nil), resp.Answers...)

	if question.Type != domain.RRTypeCNAME {
		for _, rr := range resp.Answers {
			if rr.Type != domain.RRTypeCNAME {
				continue
			}
			cname, ok := rr.RData.(domain.CNAMEData)
			if !ok || cname.Target == "" {
				continue
			}
			if !b.spendRecursiveCall() {
				break
			}
			subQ, err := domain.NewQuestion(cname.Target, domain.RRTypeCNAME, domain.RRClassIN)
			if err != nil {
				continue
			}
			sub := domain.NewQueryMessage(query.Header.ID, subQ)
			sub.Header.RD = query.Header.RD
			subResp := r.lookup(ctx, sub, b)
			answers = append(answers, subResp.Answers...)
		}
	}

	out := domain.Message{Header: query.Header}
	out.Header.QR = true
	out.Header.AA = false
	out.Header.RA = true
	out.Questions = []domain.Question{question}
	out.Answers = answers
	out.Header = out.WithCounts()
	return out
}

// handleAuthorities implements step (f), plus the bounded glue-retry
// described in SPEC_FULL.md §3.6. On success it returns the next server IP
// and queried name for the caller's outer loop; final is non-nil when the
// walk must terminate immediately (an SOA candidate, or exhaustion).
func (r *Resolver) handleAuthorities(ctx context.Context, query domain.Message, resp domain.Message, b *budget) (nextIP, nextName string, final *domain.Message) {
	candidates := buildAuthorityCandidates(resp.Authorities)
	if len(candidates) == 0 {
		out := nameErrorCarryingAuthorities(query, resp.Authorities)
		return "", "", &out
	}

	chosen := candidates[rand.Intn(len(candidates))]
	if chosen.Type == domain.RRTypeSOA {
		out := soaNameError(query, resp)
		return "", "", &out
	}

	if ip, name, ok := r.tryAuthorityCandidate(ctx, query, chosen, b); ok {
		return ip, name, nil
	}

	negKey := domain.CacheKey(chosen.Name, domain.RRTypeA, domain.RRClassIN)
	skipRetry := r.negFilter.MightHaveFailed(negKey)
	r.negFilter.Record(negKey)

	if len(candidates) > 1 && !skipRetry {
		remaining := excludeCandidate(candidates, chosen)
		retry := remaining[rand.Intn(len(remaining))]
		if retry.Type != domain.RRTypeSOA {
			if ip, name, ok := r.tryAuthorityCandidate(ctx, query, retry, b); ok {
				return ip, name, nil
			}
		}
	}

	out := nameErrorCarryingAuthorities(query, resp.Authorities)
	return "", "", &out
}

// tryAuthorityCandidate resolves candidate.Name for type A via a recursive
// lookup, reporting a uniformly chosen answer's address and owner name on
// success.
func (r *Resolver) tryAuthorityCandidate(ctx context.Context, query domain.Message, candidate domain.ResourceRecord, b *budget) (string, string, bool) {
	if !b.spendRecursiveCall() {
		return "", "", false
	}
	subQ, err := domain.NewQuestion(candidate.Name, domain.RRTypeA, domain.RRClassIN)
	if err != nil {
		return "", "", false
	}
	sub := domain.NewQueryMessage(query.Header.ID, subQ)
	aResp := r.lookup(ctx, sub, b)
	if len(aResp.Answers) == 0 {
		return "", "", false
	}
	answer := aResp.Answers[rand.Intn(len(aResp.Answers))]
	return answer.RData.String(), answer.Name, true
}

// filterGlue keeps only the A-type additionals: IPv4 glue records, the
// only kind the spec allows the engine to treat as a next-hop address.
func filterGlue(additionals []domain.ResourceRecord) []domain.ResourceRecord {
	glue := make([]domain.ResourceRecord, 0, len(additionals))
	for _, rr := range additionals {
		if rr.Type == domain.RRTypeA {
			glue = append(glue, rr)
		}
	}
	return glue
}

// buildAuthorityCandidates turns each NS authority into a candidate whose
// name is the delegated server's own host name (so it can be validated and
// then resolved), leaving SOA (and any other) authorities' owner names
// untouched since those already name the zone apex, not a server to query.
// Candidates whose resulting name fails the domain-validity check are
// dropped.
func buildAuthorityCandidates(authorities []domain.ResourceRecord) []domain.ResourceRecord {
	candidates := make([]domain.ResourceRecord, 0, len(authorities))
	for _, rr := range authorities {
		candidate := rr
		if ns, ok := rr.RData.(domain.NSData); ok {
			candidate.Name = ns.NameServer
		}
		if !isValidDomainName(candidate.Name) {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// excludeCandidate returns candidates with the first occurrence of target
// (by name and type) removed, for the single bounded glue-retry pick.
func excludeCandidate(candidates []domain.ResourceRecord, target domain.ResourceRecord) []domain.ResourceRecord {
	out := make([]domain.ResourceRecord, 0, len(candidates)-1)
	removed := false
	for _, c := range candidates {
		if !removed && c.Name == target.Name && c.Type == target.Type {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

// nameErrorCarryingAuthorities implements step (g): a NAME_ERROR response
// carrying whatever authorities were received, with empty additionals.
func nameErrorCarryingAuthorities(query domain.Message, authorities []domain.ResourceRecord) domain.Message {
	out := domain.Message{Header: query.Header}
	out.Header.QR = true
	out.Header.AA = false
	out.Header.RA = true
	out.Header.RCode = nxdomainRCode
	out.Questions = query.Questions
	out.Authorities = authorities
	out.Header = out.WithCounts()
	return out
}

// soaNameError implements the SOA branch of step (f): NXDOMAIN carrying
// the full authority and additional sections through, so the client can
// see the SOA that proves the name truly doesn't exist.
func soaNameError(query domain.Message, resp domain.Message) domain.Message {
	out := domain.Message{Header: query.Header}
	out.Header.QR = true
	out.Header.AA = false
	out.Header.RA = true
	out.Header.RCode = nxdomainRCode
	out.Questions = query.Questions
	out.Authorities = resp.Authorities
	out.Additionals = resp.Additionals
	out.Header = out.WithCounts()
	return out
}
