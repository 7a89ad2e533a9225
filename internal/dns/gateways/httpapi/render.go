package httpapi

import "github.com/nullhorizon/recon-dns/internal/dns/domain"

// jsonMessage is the wire-independent JSON rendering of a domain.Message.
// RData is rendered through its String() method rather than marshaled as
// a Go struct, since the interface's concrete type carries no JSON tags
// of its own and the textual form (dotted-quad, hostname, ...) is what a
// human caller of this endpoint actually wants to read.
type jsonMessage struct {
	ID        uint16           `json:"id"`
	RCode     string           `json:"rcode"`
	Questions []jsonQuestion   `json:"questions"`
	Answers   []jsonResourceRR `json:"answers,omitempty"`
}

type jsonQuestion struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Class string `json:"class"`
}

type jsonResourceRR struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Class string `json:"class"`
	TTL   uint32 `json:"ttl"`
	Data  string `json:"data"`
}

func toJSON(msg domain.Message) jsonMessage {
	out := jsonMessage{
		ID:    msg.Header.ID,
		RCode: msg.Header.RCode.String(),
	}
	for _, q := range msg.Questions {
		out.Questions = append(out.Questions, jsonQuestion{
			Name:  q.Name,
			Type:  q.Type.String(),
			Class: q.Class.String(),
		})
	}
	for _, rr := range msg.Answers {
		data := ""
		if rr.RData != nil {
			data = rr.RData.String()
		}
		out.Answers = append(out.Answers, jsonResourceRR{
			Name:  rr.Name,
			Type:  rr.Type.String(),
			Class: rr.Class.String(),
			TTL:   rr.TTL,
			Data:  data,
		})
	}
	return out
}
