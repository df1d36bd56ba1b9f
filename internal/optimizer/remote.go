package optimizer

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
)

const (
	serviceName = "xivcsolver.Optimizer"
	solveMethod = "/" + serviceName + "/Solve"
)

// Remote calls an optimizer exposed over gRPC. Messages are
// google.protobuf.Struct values carrying the wire field names.
type Remote struct {
	conn grpc.ClientConnInterface
	own  *grpc.ClientConn
}

// Dial connects to target. Without options the connection is plaintext.
func Dial(target string, opts ...grpc.DialOption) (*Remote, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial optimizer %s: %w", target, err)
	}
	return &Remote{conn: conn, own: conn}, nil
}

// NewRemote wraps an existing connection. Close leaves it open.
func NewRemote(conn grpc.ClientConnInterface) *Remote {
	return &Remote{conn: conn}
}

// Solve sends one request.
func (r *Remote) Solve(ctx context.Context, req Request) ([]craft.CandidateSolution, error) {
	in, err := structpb.NewStruct(req.Fields())
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	out := &structpb.Struct{}
	if err := r.conn.Invoke(ctx, solveMethod, in, out); err != nil {
		return nil, err
	}
	return DecodeSolutions(out.AsMap())
}

// Close closes a connection opened by Dial.
func (r *Remote) Close() error {
	if r.own == nil {
		return nil
	}
	return r.own.Close()
}

// RegisterServer exposes opt on s under the service Remote calls.
func RegisterServer(s grpc.ServiceRegistrar, opt Optimizer) {
	s.RegisterService(&serviceDesc, opt)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Optimizer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Solve", Handler: solveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "xivcsolver/optimizer.proto",
}

func solveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	handle := func(ctx context.Context, msg any) (any, error) {
		req, err := RequestFromFields(msg.(*structpb.Struct).AsMap())
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		sols, err := srv.(Optimizer).Solve(ctx, req)
		if err != nil {
			if _, ok := status.FromError(err); ok {
				return nil, err
			}
			return nil, status.Error(codes.Internal, err.Error())
		}
		return structpb.NewStruct(EncodeSolutions(sols))
	}
	if interceptor == nil {
		return handle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: solveMethod}
	return interceptor(ctx, in, info, handle)
}
