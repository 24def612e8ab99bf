package api

import (
	"context"
	"encoding/base64"
	"net"
	"testing"

	"github.com/beka-birhanu/vinom-arena-server/service"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeManager struct {
	matchID uuid.UUID
	got     []uuid.UUID
	players map[uuid.UUID]bool
}

func (f *fakeManager) NewMatch(ids []uuid.UUID) (uuid.UUID, error) {
	if len(ids) > 2 {
		return uuid.Nil, service.ErrTooManyPlayers
	}
	f.got = ids
	for _, id := range ids {
		f.players[id] = true
	}
	return f.matchID, nil
}

func (f *fakeManager) StopAll() {}

func (f *fakeManager) SessionInfo(id uuid.UUID) ([]byte, string, error) {
	if !f.players[id] {
		return nil, "", service.ErrNoSession
	}
	return []byte{0x30, 0x82, 0xff}, "10.0.0.2:4000", nil
}

func dialSession(t *testing.T, mm *fakeManager) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	if err := RegisterNewMatchManager(srv, mm); err != nil {
		t.Fatal(err)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestServer_NewMatchAndSessionInfo(t *testing.T) {
	mm := &fakeManager{matchID: uuid.New(), players: map[uuid.UUID]bool{}}
	conn := dialSession(t, mm)
	ctx := context.Background()
	p1, p2 := uuid.New(), uuid.New()

	resp := new(structpb.Struct)
	req := mustStruct(t, map[string]interface{}{"player_ids": []interface{}{p1.String(), p2.String()}})
	if err := conn.Invoke(ctx, Session_NewMatch_FullMethodName, req, resp); err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if got := resp.GetFields()["match_id"].GetStringValue(); got != mm.matchID.String() {
		t.Fatalf("match id: %q", got)
	}
	if len(mm.got) != 2 || mm.got[0] != p1 || mm.got[1] != p2 {
		t.Fatalf("manager got %v", mm.got)
	}

	info := new(structpb.Struct)
	if err := conn.Invoke(ctx, Session_SessionInfo_FullMethodName, mustStruct(t, map[string]interface{}{"player_id": p2.String()}), info); err != nil {
		t.Fatalf("SessionInfo: %v", err)
	}
	key, err := base64.StdEncoding.DecodeString(info.GetFields()["server_pub_key"].GetStringValue())
	if err != nil || len(key) != 3 || key[2] != 0xff {
		t.Fatalf("public key: %v %v", key, err)
	}
	if info.GetFields()["server_addr"].GetStringValue() != "10.0.0.2:4000" {
		t.Fatalf("addr: %v", info.GetFields()["server_addr"])
	}
}

func TestServer_ErrorCodes(t *testing.T) {
	mm := &fakeManager{matchID: uuid.New(), players: map[uuid.UUID]bool{}}
	conn := dialSession(t, mm)
	ctx := context.Background()

	cases := []struct {
		name   string
		method string
		req    map[string]interface{}
		code   codes.Code
	}{
		{
			name:   "missing player list",
			method: Session_NewMatch_FullMethodName,
			req:    map[string]interface{}{},
			code:   codes.InvalidArgument,
		},
		{
			name:   "bad player id",
			method: Session_NewMatch_FullMethodName,
			req:    map[string]interface{}{"player_ids": []interface{}{"nope"}},
			code:   codes.InvalidArgument,
		},
		{
			name:   "too many players",
			method: Session_NewMatch_FullMethodName,
			req: map[string]interface{}{"player_ids": []interface{}{
				uuid.NewString(), uuid.NewString(), uuid.NewString(),
			}},
			code: codes.InvalidArgument,
		},
		{
			name:   "no session",
			method: Session_SessionInfo_FullMethodName,
			req:    map[string]interface{}{"player_id": uuid.NewString()},
			code:   codes.NotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := conn.Invoke(ctx, tc.method, mustStruct(t, tc.req), new(structpb.Struct))
			if status.Code(err) != tc.code {
				t.Fatalf("expected %v, got %v", tc.code, err)
			}
		})
	}
}
