package optimizer

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
)

func serve(t *testing.T, opt Optimizer) *Remote {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterServer(srv, opt)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRemote(conn)
}

func TestRemoteSolve(t *testing.T) {
	var seen Request
	remote := serve(t, Func(func(_ context.Context, req Request) ([]craft.CandidateSolution, error) {
		seen = req
		return []craft.CandidateSolution{
			{Actions: []actions.ID{actions.MuscleMemory, actions.BasicSynthesis2}, Quality: req.Quality + 1, Steps: 2, RemainingCP: 7},
		}, nil
	}))

	req := twoStarRequest()
	req.Desperate = true
	sols, err := remote.Solve(context.Background(), req)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if seen != req {
		t.Fatalf("server saw %+v\nwant %+v", seen, req)
	}
	if len(sols) != 1 || sols[0].Quality != 10921 || sols[0].RemainingCP != 7 || sols[0].Actions[1] != actions.BasicSynthesis2 {
		t.Fatalf("solutions = %+v", sols)
	}
	if err := remote.Close(); err != nil {
		t.Fatalf("Close on wrapped conn: %v", err)
	}
}

func TestRemoteSolveError(t *testing.T) {
	remote := serve(t, Func(func(context.Context, Request) ([]craft.CandidateSolution, error) {
		return nil, errors.New("search exhausted")
	}))
	_, err := remote.Solve(context.Background(), twoStarRequest())
	if status.Code(err) != codes.Internal {
		t.Fatalf("err = %v, want Internal", err)
	}
}

func TestRemoteSolveEmpty(t *testing.T) {
	remote := serve(t, Func(func(context.Context, Request) ([]craft.CandidateSolution, error) {
		return nil, nil
	}))
	sols, err := remote.Solve(context.Background(), twoStarRequest())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sols) != 0 {
		t.Fatalf("solutions = %+v", sols)
	}
}
