package route_planner

import (
	"context"
	"errors"
	"math"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

func startPlanner(t *testing.T, src FillSource) *Client {
	t.Helper()
	bins, _ := sampleMap()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterRoutePlannerServer(srv, NewGrpcHandler(NewPlanner(bins, src, model.Point{}, DefaultThresholds())))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func stopIDs(t *testing.T, resp *structpb.Struct) []string {
	t.Helper()
	var out []string
	for _, v := range resp.GetFields()["stops"].GetListValue().GetValues() {
		out = append(out, v.GetStructValue().GetFields()["bin_id"].GetStringValue())
	}
	return out
}

func TestGrpcPlanDefaults(t *testing.T) {
	_, fills := sampleMap()
	client := startPlanner(t, staticSource{fills: fills})

	resp, err := client.Plan(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := stopIDs(t, resp); !equalIDs(got, []string{"B04", "B01", "B03"}) {
		t.Fatalf("stops = %v", got)
	}
	if n := resp.GetFields()["critical_count"].GetNumberValue(); n != 2 {
		t.Fatalf("critical_count = %v", n)
	}
	first := resp.GetFields()["stops"].GetListValue().GetValues()[0].GetStructValue().GetFields()
	if first["fill"].GetNumberValue() != 60 || first["critical"].GetBoolValue() {
		t.Fatalf("first stop = %v", first)
	}
}

func TestGrpcPlanOverrides(t *testing.T) {
	_, fills := sampleMap()
	client := startPlanner(t, staticSource{fills: fills})

	req, _ := structpb.NewStruct(map[string]interface{}{"critical": 40, "secondary": 10})
	resp, err := client.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := stopIDs(t, resp); !equalIDs(got, []string{"B01", "B04", "B02", "B03"}) {
		t.Fatalf("stops = %v", got)
	}
}

func TestGrpcPlanInvalidArgument(t *testing.T) {
	client := startPlanner(t, staticSource{})

	for _, fields := range []map[string]interface{}{
		{"critical": "high"},
		{"critical": 50, "secondary": 70},
		{"max_detour": -1},
		{"critical": 80.5},
		{"secondary": 1e300},
		{"critical": math.Inf(1)},
		{"secondary": math.NaN()},
		{"max_detour": math.NaN()},
		{"max_detour": math.Inf(1)},
	} {
		req, _ := structpb.NewStruct(fields)
		_, err := client.Plan(context.Background(), req)
		if status.Code(err) != codes.InvalidArgument {
			t.Errorf("Plan(%v) code = %v, want InvalidArgument", fields, status.Code(err))
		}
	}
}

func TestGrpcPlanUnavailable(t *testing.T) {
	client := startPlanner(t, staticSource{err: errors.Join(ErrSourceUnavailable, errors.New("collector down"))})

	_, err := client.Plan(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("code = %v, want Unavailable (%v)", status.Code(err), err)
	}
}

func TestThresholdsFromKeepsWholePercentages(t *testing.T) {
	req, _ := structpb.NewStruct(map[string]interface{}{"critical": 90.0, "secondary": 0})
	th, err := thresholdsFrom(req, DefaultThresholds())
	if err != nil {
		t.Fatalf("thresholdsFrom: %v", err)
	}
	if th.Critical != 90 || th.Secondary != 0 || th.MaxDetour != DefaultThresholds().MaxDetour {
		t.Fatalf("thresholds = %+v", th)
	}

	req, _ = structpb.NewStruct(map[string]interface{}{"critical": 79.9})
	if th, err := thresholdsFrom(req, DefaultThresholds()); err == nil {
		t.Fatalf("79.9 accepted as %+v", th)
	}
}
