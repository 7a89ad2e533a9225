package main

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
	"github.com/nullhorizon/recon-dns/internal/dns/gateways/transport"
	"github.com/stretchr/testify/require"
)

// e2eResolver is a scripted stand-in for the resolution engine: every
// upstream walk the engine would otherwise perform against the real root
// hints is out of reach of a sandboxed, port-53-only test, so this exercises
// the wire codec and the C7 front-end's request/response cycle in full over
// a real UDP socket instead.
type e2eResolver struct {
	answer string
}

func (r e2eResolver) Resolve(_ context.Context, query domain.Message) domain.Message {
	resp := domain.Message{Header: query.Header, Questions: query.Questions}
	resp.Header.QR = true
	resp.Header.RA = true
	resp.Answers = []domain.ResourceRecord{
		{Name: query.Questions[0].Name, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 60, RData: domain.AData{Address: r.answer}},
	}
	resp.Header = resp.WithCounts()
	return resp
}

// TestE2E_UDPRoundTrip drives a real client datagram through a real UDP
// server socket and the wire codec, end to end.
func TestE2E_UDPRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	port := freeUDPPort(t)
	server := transport.NewServer(fmt.Sprintf("127.0.0.1:%d", port), log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, server.Start(ctx, e2eResolver{answer: "192.0.2.55"}))
	defer server.Stop()

	client := transport.NewClient(log.NewNoopLogger())

	q, err := domain.NewQuestion("e2e.example.com", domain.RRTypeA, domain.RRClassIN)
	require.NoError(t, err)
	query := domain.NewQueryMessage(4242, q)

	resp, err := client.Query(context.Background(), query, "127.0.0.1", port, time.Second)
	require.NoError(t, err)
	require.Len(t, resp.Answers, 1)
	require.Equal(t, "192.0.2.55", resp.Answers[0].RData.String())
}

// TestE2E_ApplicationLifecycle starts the fully wired application (real
// resolution engine, memory-backed cache), dials its UDP address until the
// dial succeeds, then cancels the context and asserts a clean shutdown. No
// query is sent, so upstream resolution is never exercised.
func TestE2E_ApplicationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	port := freeUDPPort(t)
	cfg := testConfig(t, port)

	app, err := buildApplication(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appErr := make(chan error, 1)
	go func() {
		appErr <- app.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	var conn net.Conn
	for {
		conn, err = net.Dial("udp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server failed to start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, conn.Close())

	cancel()
	select {
	case err := <-appErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application failed to shut down within timeout")
	}
}
