package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/idle-economy/internal/converter"
	"github.com/napolitain/idle-economy/internal/loader"
	"github.com/napolitain/idle-economy/internal/models"
	"github.com/napolitain/idle-economy/internal/simulation"
)

const (
	defaultStep = 1.0 / 60
	// upper bound on Update calls per Advance request
	maxFrames = 1_000_000
)

// server implements idle.v1.EconomyService. It holds only the catalog; every
// request gets a fresh Simulation.
type server struct {
	catalog *models.Catalog
	logger  *slog.Logger
	clock   simulation.Clock
}

// fixedClock reports the time a request asked for
type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// loadRequest builds a simulation from the request's "save" field, or a new
// game if it has none
func (s *server) loadRequest(req *structpb.Struct, clock simulation.Clock) (*simulation.Simulation, *models.SaveData, error) {
	saveSt, err := converter.StructField(req, "save")
	if err != nil {
		return nil, nil, status.Error(codes.InvalidArgument, err.Error())
	}

	save := models.DefaultSave(s.catalog)
	if saveSt != nil {
		save, err = converter.ProtoToSave(saveSt)
		if err != nil {
			return nil, nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	sim := simulation.New(s.catalog, simulation.WithClock(clock), simulation.WithLogger(s.logger))
	sim.Load(save)
	return sim, save, nil
}

// CatchUp applies the time since the save's timestamp. The request may set
// "now" in milliseconds since epoch; otherwise the server clock is used.
func (s *server) CatchUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log.Printf("Received CatchUp request")

	now := s.clock.Now()
	nowMillis, err := converter.NumberField(req, "now", 0)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if nowMillis > 0 {
		now = time.UnixMilli(int64(nowMillis))
	}
	clock := fixedClock(now)

	sim, save, err := s.loadRequest(req, clock)
	if err != nil {
		return nil, err
	}

	report := &simulation.CatchUpReport{}
	if save.LastSaved > 0 {
		report = sim.CatchUp(save.LastSaved)
	}
	log.Printf("Caught up %.0fs", report.Duration)

	return s.respond(sim, report)
}

// Advance runs "seconds" of frames of "step" seconds (default 1/60) on the
// request's save
func (s *server) Advance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log.Printf("Received Advance request")

	seconds, err := converter.NumberField(req, "seconds", 0)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	step, err := converter.NumberField(req, "step", defaultStep)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if !(seconds > 0) || !(step > 0) {
		return nil, status.Error(codes.InvalidArgument, "seconds and step must be positive")
	}
	if seconds/step > maxFrames {
		return nil, status.Errorf(codes.InvalidArgument, "%.0f frames requested, limit is %d", seconds/step, maxFrames)
	}

	sim, _, err := s.loadRequest(req, s.clock)
	if err != nil {
		return nil, err
	}

	frames := 0
	for remaining := seconds; remaining > 0; remaining -= step {
		if frames%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, status.FromContextError(err).Err()
			}
		}
		sim.Update(min(step, remaining))
		frames++
	}
	log.Printf("Advanced %.1fs in %d frames", seconds, frames)

	return s.respond(sim, nil)
}

// respond packs the resulting save, the structure states and the optional
// catch-up report
func (s *server) respond(sim *simulation.Simulation, report *simulation.CatchUpReport) (*structpb.Struct, error) {
	saveSt, err := converter.SaveToProto(sim.ToData())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	structures := make([]*structpb.Value, 0, len(sim.Structures()))
	for _, st := range sim.Structures() {
		statusSt, err := converter.StructureStatusToProto(st)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		structures = append(structures, structpb.NewStructValue(statusSt))
	}

	resp := &structpb.Struct{Fields: map[string]*structpb.Value{
		"save":       structpb.NewStructValue(saveSt),
		"structures": structpb.NewListValue(&structpb.ListValue{Values: structures}),
	}}
	if report != nil {
		reportSt, err := converter.ReportToProto(report)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		resp.Fields["report"] = structpb.NewStructValue(reportSt)
	}
	return resp, nil
}

func main() {
	var (
		port        int
		catalogFile string
	)

	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "gRPC server for the idle economy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loader.LoadCatalog(catalogFile)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			log.Printf("Loaded %d structures", len(catalog.Structures))

			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
			if err != nil {
				return fmt.Errorf("failed to listen: %w", err)
			}

			s := grpc.NewServer()
			registerEconomyService(s, &server{
				catalog: catalog,
				logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
				clock:   simulation.RealClock{},
			})

			log.Printf("gRPC server listening on port %d", port)
			return s.Serve(lis)
		},
	}
	rootCmd.Flags().IntVarP(&port, "port", "p", 50051, "The server port")
	rootCmd.Flags().StringVarP(&catalogFile, "catalog", "c", "", "YAML catalog override")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
