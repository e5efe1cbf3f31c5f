package route_planner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "smartbin.RoutePlanner"
	planMethod  = "/smartbin.RoutePlanner/Plan"
)

// RoutePlannerServer takes optional "critical", "secondary" and "max_detour"
// overrides and answers with the ordered stops.
type RoutePlannerServer interface {
	Plan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var RoutePlannerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RoutePlannerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Plan", Handler: planHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "smartbin/route_planner.proto",
}

func RegisterRoutePlannerServer(s grpc.ServiceRegistrar, srv RoutePlannerServer) {
	s.RegisterService(&RoutePlannerServiceDesc, srv)
}

func planHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoutePlannerServer).Plan(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: planMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RoutePlannerServer).Plan(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GrpcHandler serves RoutePlanner/Plan from a Planner.
type GrpcHandler struct {
	planner *Planner
}

func NewGrpcHandler(p *Planner) *GrpcHandler { return &GrpcHandler{planner: p} }

func (h *GrpcHandler) Plan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	th, err := thresholdsFrom(req, h.planner.Defaults())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	if err := th.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	plan, err := h.planner.Plan(ctx, th)
	switch {
	case errors.Is(err, ErrSourceUnavailable):
		return nil, status.Errorf(codes.Unavailable, "%v", err)
	case err != nil:
		return nil, status.Errorf(codes.Internal, "%v", err)
	}

	stops := make([]interface{}, 0, len(plan.Stops))
	for _, s := range plan.Stops {
		stops = append(stops, map[string]interface{}{
			"bin_id":   s.BinID,
			"fill":     s.Fill,
			"x":        s.X,
			"y":        s.Y,
			"critical": s.Critical,
		})
	}
	unreported := make([]interface{}, 0, len(plan.Unreported))
	for _, id := range plan.Unreported {
		unreported = append(unreported, id)
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		"stops":          stops,
		"distance":       plan.Distance,
		"critical_count": plan.Critical,
		"unreported":     unreported,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode plan: %v", err)
	}
	return out, nil
}

func thresholdsFrom(req *structpb.Struct, th Thresholds) (Thresholds, error) {
	fields := req.GetFields()
	num := func(key string) (float64, bool, error) {
		v, ok := fields[key]
		if !ok {
			return 0, false, nil
		}
		n, isNum := v.GetKind().(*structpb.Value_NumberValue)
		if !isNum {
			return 0, false, errors.New(key + " must be a number")
		}
		return n.NumberValue, true, nil
	}
	// fills travel as JSON numbers; only whole percentages are thresholds
	percent := func(key string, v float64) (int, error) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < 0 || v > 100 {
			return 0, fmt.Errorf("%s must be a whole percentage, got %g", key, v)
		}
		return int(v), nil
	}

	if v, ok, err := num("critical"); err != nil {
		return th, err
	} else if ok {
		if th.Critical, err = percent("critical", v); err != nil {
			return th, err
		}
	}
	if v, ok, err := num("secondary"); err != nil {
		return th, err
	} else if ok {
		if th.Secondary, err = percent("secondary", v); err != nil {
			return th, err
		}
	}
	if v, ok, err := num("max_detour"); err != nil {
		return th, err
	} else if ok {
		th.MaxDetour = v
	}
	return th, nil
}

// Client calls RoutePlanner/Plan on a connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func (c *Client) Plan(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, planMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ RoutePlannerServer = (*GrpcHandler)(nil)
