package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/idle-economy/internal/converter"
	"github.com/napolitain/idle-economy/internal/models"
)

var serverNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// testServer creates a server instance for testing without starting the gRPC listener
func testServer(t *testing.T) *server {
	t.Helper()
	return &server{
		catalog: models.DefaultCatalog(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:   fixedClock(serverNow),
	}
}

// managedHerbalistSave is a new game whose herbalist runs on its own, saved
// at savedAt
func managedHerbalistSave(t *testing.T, savedAt time.Time) *structpb.Struct {
	t.Helper()
	save := models.DefaultSave(models.DefaultCatalog())
	h := save.Structures[models.Herbalist]
	h.Managed = true
	save.Structures[models.Herbalist] = h
	save.LastSaved = savedAt.UnixMilli()

	st, err := converter.SaveToProto(save)
	if err != nil {
		t.Fatalf("SaveToProto failed: %v", err)
	}
	return st
}

func request(t *testing.T, fields map[string]*structpb.Value) *structpb.Struct {
	t.Helper()
	return &structpb.Struct{Fields: fields}
}

func responseSave(t *testing.T, resp *structpb.Struct) *models.SaveData {
	t.Helper()
	saveSt, err := converter.StructField(resp, "save")
	if err != nil || saveSt == nil {
		t.Fatalf("Expected save in response, got %v (%v)", saveSt, err)
	}
	save, err := converter.ProtoToSave(saveSt)
	if err != nil {
		t.Fatalf("ProtoToSave failed: %v", err)
	}
	return save
}

func TestCatchUpUsesServerClock(t *testing.T) {
	srv := testServer(t)
	req := request(t, map[string]*structpb.Value{
		"save": structpb.NewStructValue(managedHerbalistSave(t, serverNow.Add(-50*time.Second))),
	})

	resp, err := srv.CatchUp(context.Background(), req)
	if err != nil {
		t.Fatalf("CatchUp failed: %v", err)
	}

	save := responseSave(t, resp)
	if save.Pool[models.Herbs] != 10 {
		t.Errorf("Expected 10 herbs after 50s, got %v", save.Pool[models.Herbs])
	}
	if save.LastSaved != serverNow.UnixMilli() {
		t.Errorf("Expected save stamped at server time, got %d", save.LastSaved)
	}

	report, _ := converter.StructField(resp, "report")
	if d, _ := converter.NumberField(report, "duration", 0); d != 50 {
		t.Errorf("Expected 50s duration, got %v", d)
	}
}

func TestCatchUpWithExplicitNow(t *testing.T) {
	srv := testServer(t)
	savedAt := serverNow.Add(-time.Hour)
	req := request(t, map[string]*structpb.Value{
		"save": structpb.NewStructValue(managedHerbalistSave(t, savedAt)),
		"now":  structpb.NewNumberValue(float64(savedAt.Add(25 * time.Second).UnixMilli())),
	})

	resp, err := srv.CatchUp(context.Background(), req)
	if err != nil {
		t.Fatalf("CatchUp failed: %v", err)
	}
	if got := responseSave(t, resp).Pool[models.Herbs]; got != 5 {
		t.Errorf("Expected 5 herbs after 25s, got %v", got)
	}
}

func TestCatchUpNewGame(t *testing.T) {
	srv := testServer(t)
	resp, err := srv.CatchUp(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("CatchUp failed: %v", err)
	}

	save := responseSave(t, resp)
	if len(save.Structures) != 4 {
		t.Errorf("Expected 4 structures in a new game, got %d", len(save.Structures))
	}
	structures := resp.GetFields()["structures"].GetListValue().GetValues()
	if len(structures) != 4 {
		t.Errorf("Expected 4 structure states, got %d", len(structures))
	}
}

func TestAdvance(t *testing.T) {
	srv := testServer(t)
	req := request(t, map[string]*structpb.Value{
		"save":    structpb.NewStructValue(managedHerbalistSave(t, serverNow)),
		"seconds": structpb.NewNumberValue(11),
		"step":    structpb.NewNumberValue(0.5),
	})

	resp, err := srv.Advance(context.Background(), req)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	// first frame starts the run, two runs finish by 10.5s
	if got := responseSave(t, resp).Pool[models.Herbs]; got != 2 {
		t.Errorf("Expected 2 herbs, got %v", got)
	}
	if _, ok := resp.GetFields()["report"]; ok {
		t.Error("Expected no report from Advance")
	}
}

func TestInvalidRequests(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"advance without seconds", func() error {
			_, err := srv.Advance(ctx, &structpb.Struct{})
			return err
		}},
		{"advance with too many frames", func() error {
			_, err := srv.Advance(ctx, request(t, map[string]*structpb.Value{
				"seconds": structpb.NewNumberValue(86400),
				"step":    structpb.NewNumberValue(0.001),
			}))
			return err
		}},
		{"advance with string seconds", func() error {
			_, err := srv.Advance(ctx, request(t, map[string]*structpb.Value{
				"seconds": structpb.NewStringValue("10"),
			}))
			return err
		}},
		{"catch-up with save not an object", func() error {
			_, err := srv.CatchUp(ctx, request(t, map[string]*structpb.Value{
				"save": structpb.NewStringValue("abc"),
			}))
			return err
		}},
		{"catch-up with malformed pool", func() error {
			bad, _ := structpb.NewStruct(map[string]any{"p": []any{1.0, 2.0}})
			_, err := srv.CatchUp(ctx, request(t, map[string]*structpb.Value{
				"save": structpb.NewStructValue(bad),
			}))
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("Expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestAdvanceCancelled(t *testing.T) {
	srv := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := srv.Advance(ctx, request(t, map[string]*structpb.Value{
		"seconds": structpb.NewNumberValue(10),
	}))
	if status.Code(err) != codes.Canceled {
		t.Errorf("Expected Canceled, got %v", err)
	}
}

// TestGRPCRoundTrip calls the service through a real gRPC connection
func TestGRPCRoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	registerEconomyService(s, testServer(t))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := request(t, map[string]*structpb.Value{
		"save": structpb.NewStructValue(managedHerbalistSave(t, serverNow.Add(-50*time.Second))),
	})
	resp := &structpb.Struct{}
	if err := conn.Invoke(ctx, "/"+serviceName+"/CatchUp", req, resp); err != nil {
		t.Fatalf("CatchUp over gRPC failed: %v", err)
	}
	if got := responseSave(t, resp).Pool[models.Herbs]; got != 10 {
		t.Errorf("Expected 10 herbs, got %v", got)
	}

	err = conn.Invoke(ctx, "/"+serviceName+"/Advance", &structpb.Struct{}, &structpb.Struct{})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("Expected InvalidArgument over the wire, got %v", err)
	}
}
