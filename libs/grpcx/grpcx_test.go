package grpcx

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

func TestHealthServerOverDial(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer()
	srv.SetServing(true, "salon")
	go srv.Serve(ctx, lis, slog.New(slog.NewTextHandler(io.Discard, nil)))

	conn, err := Dial(context.Background(), lis.Addr().String(), DialOptions{Timeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	callCtx := WithRequestID(context.Background(), "req-123")
	var header metadata.MD
	resp, err := healthpb.NewHealthClient(conn).Check(callCtx, &healthpb.HealthCheckRequest{Service: "salon"}, grpc.Header(&header))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %s", resp.GetStatus())
	}
	if got := header.Get(RequestIDMetadataKey); len(got) == 0 || got[0] != "req-123" {
		t.Fatalf("expected request id echoed back, got %v", got)
	}

	srv.SetServing(false, "salon")
	resp, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: "salon"})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %s", resp.GetStatus())
	}
}

func TestCheckHealth(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer()
	srv.SetServing(true, "salon")
	go srv.Serve(ctx, lis, slog.New(slog.NewTextHandler(io.Discard, nil)))

	opts := DialOptions{Timeout: 3 * time.Second}
	if err := CheckHealth(context.Background(), lis.Addr().String(), "salon", opts); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}
	srv.SetServing(false, "salon")
	if err := CheckHealth(context.Background(), lis.Addr().String(), "salon", opts); err == nil {
		t.Fatal("expected not serving error")
	}
}
