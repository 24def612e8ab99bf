package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/beka-birhanu/udp-socket-manager/crypto"
	udppb "github.com/beka-birhanu/udp-socket-manager/encoding"
	udpsocket "github.com/beka-birhanu/udp-socket-manager/socket"
	"github.com/beka-birhanu/vinom-arena-server/api"
	"github.com/beka-birhanu/vinom-arena-server/config"
	"github.com/beka-birhanu/vinom-arena-server/indexdb"
	"github.com/beka-birhanu/vinom-arena-server/service"
	"github.com/beka-birhanu/vinom-arena-server/service/i"
	"github.com/beka-birhanu/vinom-arena-server/spectator"
	"github.com/beka-birhanu/vinom-arena-server/tuning"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	socket_i "github.com/beka-birhanu/vinom-common/interfaces/socket"
	logger "github.com/beka-birhanu/vinom-common/log"
	"google.golang.org/grpc"
)

// Global variables for dependencies
var (
	grpcConnListener net.Listener
	grpcServer       *grpc.Server
	httpServer       *http.Server
	udpSocketManager socket_i.ServerSocketManager
	matchManager     i.MatchManager
	matchTuning      tuning.Match
	matchIndex       *indexdb.SQLiteIndex
	spectatorHub     *spectator.Hub
	appLogger        general_i.Logger
)

func mustLogger(prefix, color string) general_i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initMatchTuning() {
	if config.Envs.MatchConfig == "" {
		matchTuning = tuning.Defaults()
		appLogger.Info("No match config given, using defaults")
		return
	}

	t, err := tuning.Load(config.Envs.MatchConfig)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading match config: %v", err))
		os.Exit(1)
	}
	matchTuning = t
	appLogger.Info(fmt.Sprintf("Match config loaded: %s, %dx%d, strategy %s", config.Envs.MatchConfig, t.Width, t.Height, t.Strategy))
}

func initMatchIndex() {
	indexLogger := mustLogger("MATCH-INDEX", config.ColorYellow)
	idx, err := indexdb.OpenSQLite(
		filepath.Join(config.Envs.DataDir, "matches.sqlite"),
		func(err error) { indexLogger.Warning(err.Error()) },
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Opening match index: %v", err))
		os.Exit(1)
	}
	matchIndex = idx
	appLogger.Info("Match index initialized")
}

func initUDPSocketManager() {
	serverAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.UdpPort))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Resolving server address: %v", err))
		os.Exit(1)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Generating RSA key: %v", err))
		os.Exit(1)
	}

	server, err := udpsocket.NewServerSocketManager(
		udpsocket.ServerConfig{
			ListenAddr:  serverAddr,
			AsymmCrypto: crypto.NewRSA(privateKey),
			SymmCrypto:  crypto.NewAESCBC(),
			Encoder:     &udppb.Protobuf{},
			HMAC:        &crypto.HMAC{},
			Logger:      mustLogger("SERVER-SOCKET", config.ColorBlue),
		},
		udpsocket.ServerWithReadBufferSize(config.Envs.UDPBufferSize),
		udpsocket.ServerWithHeartbeatExpiration(time.Duration(config.Envs.UDPHeartbeatExpiration)*time.Millisecond),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating server UDP socket manager: %v", err))
		os.Exit(1)
	}

	udpSocketManager = server
	appLogger.Info("UDP Socket Manager initialized")
}

func initSpectatorHub() {
	spectatorHub = spectator.NewHub(mustLogger("SPECTATOR", config.ColorYellow))
	httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%v", config.Envs.ProxyIP, config.Envs.HttpPort),
		Handler:           spectatorHub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	appLogger.Info("Spectator hub initialized")
}

func initMatchManager() {
	manager, err := service.NewMatchManager(
		&service.Config{
			Socket:     udpSocketManager,
			Tuning:     matchTuning,
			Spectators: spectatorHub,
			Index:      matchIndex,
			ReplayDir:  filepath.Join(config.Envs.DataDir, "replays"),
			Logger:     mustLogger("MATCH-MANAGER", config.ColorCyan),
		},
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating match manager: %v", err))
		os.Exit(1)
	}
	matchManager = manager
	appLogger.Info("Match Manager initialized")
}

func initSessionController() {
	grpcServer = grpc.NewServer()
	err := api.RegisterNewMatchManager(grpcServer, matchManager)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating and Registering session controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session controller initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	initMatchTuning()
	initMatchIndex()
	initUDPSocketManager()
	initSpectatorHub()
	initMatchManager()
	initSessionController()

	defer func() {
		matchManager.StopAll()
		udpSocketManager.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
		if err := matchIndex.Close(); err != nil {
			appLogger.Warning(fmt.Sprintf("Closing match index: %v", err))
		}
	}()

	go udpSocketManager.Serve()
	appLogger.Info("UDP Socket Manager started serving")

	go func() {
		appLogger.Info(fmt.Sprintf("Serving spectators at: %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Serving spectators: %v", err))
		}
	}()

	var err error
	addr := fmt.Sprintf("%s:%v", config.Envs.ProxyIP, config.Envs.GrpcPort)
	grpcConnListener, err = net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp: %v", err))
		os.Exit(1)
	}
	defer func() {
		_ = grpcConnListener.Close()
	}()

	appLogger.Info(fmt.Sprintf("Serving gRPC at: %s", addr))

	if err := grpcServer.Serve(grpcConnListener); err != nil {
		appLogger.Error(fmt.Sprintf("Serving gRPC: %v", err))
		os.Exit(1)
	}
}
