package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-arena-server/service"
	"github.com/beka-birhanu/vinom-arena-server/service/i"
	"github.com/google/uuid"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server adapts a MatchManager to the arena.Session service.
type Server struct {
	matchManager i.MatchManager

	UnimplementedSessionServer
}

// RegisterNewMatchManager exposes mm over gRPC as the arena.Session service.
func RegisterNewMatchManager(gsr grpc.ServiceRegistrar, mm i.MatchManager) error {
	if mm == nil {
		return errors.New("nil match manager")
	}
	server := &Server{
		matchManager: mm,
	}

	RegisterSessionServer(gsr, server)
	return nil
}

// NewMatch starts a match for the listed players and returns its id.
func (s *Server) NewMatch(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	rawIDs, ok := r.GetFields()["player_ids"]
	if !ok || rawIDs.GetListValue() == nil {
		return nil, status.Error(codes.InvalidArgument, "player_ids must be a list")
	}

	parsedIDs := make([]uuid.UUID, 0, len(rawIDs.GetListValue().GetValues()))
	for _, v := range rawIDs.GetListValue().GetValues() {
		id, err := uuid.Parse(v.GetStringValue())
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "parsing player id %q: %s", v.GetStringValue(), err)
		}
		parsedIDs = append(parsedIDs, id)
	}

	matchID, err := s.matchManager.NewMatch(parsedIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"match_id": matchID.String(),
	})
}

// SessionInfo returns the UDP endpoint and public key a player connects to.
func (s *Server) SessionInfo(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	parsedID, err := uuid.Parse(r.GetFields()["player_id"].GetStringValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "parsing player_id: %s", err)
	}

	pubKey, serverAddr, err := s.matchManager.SessionInfo(parsedID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"server_pub_key": base64.StdEncoding.EncodeToString(pubKey),
		"server_addr":    serverAddr,
	})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrTooManyPlayers), errors.Is(err, service.ErrNotEnoughPlayers):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrPlayerInMatch):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrNoSession):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, fmt.Sprintf("match manager: %s", err))
	}
}
