package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"github.com/magefree/battle-engine-go/internal/battle/autopilot"
	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/replay"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/repository"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the battle service.
const (
	serviceName        = "battle.v1.BattleService"
	SimulateMethod     = "/" + serviceName + "/Simulate"
	SearchMethod       = "/" + serviceName + "/Search"
	VerifyReplayMethod = "/" + serviceName + "/VerifyReplay"
	maxSearchCount     = 10000
)

// BattleServer is the gRPC surface. Messages are google.protobuf.Struct so
// the service needs no generated code.
type BattleServer interface {
	Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	VerifyReplay(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// battleServer implements BattleServer on top of BattleService.
type battleServer struct {
	svc     *BattleService
	workers int
	logger  *zap.Logger
}

// NewBattleServer creates the gRPC implementation.
func NewBattleServer(svc *BattleService, logger *zap.Logger) BattleServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &battleServer{svc: svc, workers: svc.battle.SearchWorkers, logger: logger}
}

// RegisterBattleServer registers srv on s.
func RegisterBattleServer(s grpc.ServiceRegistrar, srv BattleServer) {
	s.RegisterService(&battleServiceDesc, srv)
}

var battleServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*BattleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: unaryHandler(SimulateMethod, BattleServer.Simulate)},
		{MethodName: "Search", Handler: unaryHandler(SearchMethod, BattleServer.Search)},
		{MethodName: "VerifyReplay", Handler: unaryHandler(VerifyReplayMethod, BattleServer.VerifyReplay)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "battle/v1/battle.proto",
}

type structMethod func(BattleServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BattleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BattleServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Simulate request: {"setup": {...}, "seed": "42", "include_events": true}.
func (s *battleServer) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	setup, err := decodeSetup(fields["setup"])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid setup: %v", err)
	}
	seed, err := decodeSeed(fields["seed"])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid seed: %v", err)
	}

	out, err := s.svc.Simulate(ctx, setup, seed)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := map[string]any{
		"battle_id": out.BattleID,
		"seed":      strconv.FormatUint(out.Seed, 10),
		"won":       out.Result.Won,
		"turns":     out.Result.Turns,
		"player_hp": out.Result.PlayerHP,
		"actions":   len(out.Result.Actions),
		"digest":    out.Digest,
		"stats":     statsMap(out.Result.Stats),
	}
	if include, _ := fields["include_events"].(bool); include {
		resp["events"] = eventLines(out.Events)
	}
	return newStruct(resp)
}

// Search request: {"setup": {...}, "from": "1", "count": 100}.
func (s *battleServer) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	setup, err := decodeSetup(fields["setup"])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid setup: %v", err)
	}
	from, err := decodeSeed(fields["from"])
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid from: %v", err)
	}
	count, _ := fields["count"].(float64)
	if count < 1 || count > maxSearchCount {
		return nil, status.Errorf(codes.InvalidArgument, "count must be between 1 and %d", maxSearchCount)
	}

	results, err := autopilot.Search(ctx, s.svc.battle.Fill(setup), s.svc.Library(), autopilot.SearchOptions{
		From:       from,
		Count:      int(count),
		Workers:    s.workers,
		MaxActions: s.svc.battle.MaxActions,
	}, s.logger)
	if err != nil {
		return nil, toStatus(err)
	}

	wins := make([]any, 0)
	for _, r := range results {
		if r.Won {
			wins = append(wins, strconv.FormatUint(r.Seed, 10))
		}
	}
	return newStruct(map[string]any{
		"count":     len(results),
		"wins":      autopilot.Wins(results),
		"won_seeds": wins,
	})
}

// VerifyReplay request: {"battle_id": "..."}.
func (s *battleServer) VerifyReplay(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, _ := req.AsMap()["battle_id"].(string)
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "battle_id is required")
	}
	rec, err := s.svc.VerifyReplay(ctx, id)
	valid := err == nil
	if err != nil && !errors.Is(err, replay.ErrChecksumMismatch) {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{
		"battle_id": id,
		"valid":     valid,
		"digest":    rec.Digest,
		"seed":      strconv.FormatUint(rec.Seed, 10),
		"actions":   len(rec.Actions),
	})
}

func decodeSetup(raw any) (encounter.Setup, error) {
	var setup encounter.Setup
	if raw == nil {
		return setup, encounter.ErrEmptySetup
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &setup,
	})
	if err != nil {
		return setup, err
	}
	if err := dec.Decode(raw); err != nil {
		return setup, err
	}
	return setup, nil
}

// decodeSeed accepts a decimal string (full 64-bit range) or a JSON number.
// Missing means 0, which asks for a fresh seed.
func decodeSeed(raw any) (uint64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, fmt.Errorf("seed %v is not a non-negative integer", v)
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("unsupported seed type %T", raw)
	}
}

func statsMap(st engine.Stats) map[string]any {
	return map[string]any{
		"turns":          st.Turns,
		"cards_played":   st.CardsPlayed,
		"attacks_played": st.AttacksPlayed,
		"skills_played":  st.SkillsPlayed,
		"powers_played":  st.PowersPlayed,
		"cards_drawn":    st.CardsDrawn,
		"damage_dealt":   st.DamageDealt,
		"damage_taken":   st.DamageTaken,
		"block_gained":   st.BlockGained,
		"enemies_killed": st.EnemiesKilled,
	}
}

func eventLines(events []rules.Event) []any {
	out := make([]any, len(events))
	for i, event := range events {
		out[i] = event.String()
	}
	return out
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, encounter.ErrInvalidSetup):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrNoStore):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
