// Command pickaxe-server runs a standalone Minecraft 1.21.1 (protocol
// 767) game server: a status/login/configuration listener feeding a
// single tick engine that owns every connected player and the world.
package main

import (
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/internal/worldgen"
	"github.com/pickaxe/pickaxe-server/pkg/config"
	"github.com/pickaxe/pickaxe-server/pkg/conn"
	"github.com/pickaxe/pickaxe-server/pkg/event"
	"github.com/pickaxe/pickaxe-server/pkg/game"
	"github.com/pickaxe/pickaxe-server/pkg/region"
)

func main() {
	configPath := flag.String("config", "pickaxe.toml", "path to the server's TOML config file")
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	applyFlags := config.BindFlags(flag.CommandLine, &cfg)
	flag.Parse()
	applyFlags()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	storage := region.NewStorage(cfg.WorldDir)
	defer storage.Close()

	bus := event.NewBus()
	loop := game.New(log, storage, worldgen.NewSuperflat(), bus)

	addr := net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("listen", zap.String("addr", addr), zap.Error(err))
	}
	log.Info("server listening", zap.String("addr", addr), zap.String("motd", cfg.MOTD))

	stopCh := make(chan struct{})
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(stopCh)
	}()

	go acceptLoop(listener, log, cfg, loop)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", zap.String("signal", sig.String()))

	listener.Close()
	close(stopCh)
	<-loopDone

	if err := loop.SaveAll(); err != nil {
		log.Error("save world on shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func acceptLoop(listener net.Listener, log *zap.Logger, cfg config.Config, loop *game.Loop) {
	for {
		nc, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("accept", zap.Error(err))
			continue
		}
		go serveConnection(nc, log, cfg, loop)
	}
}

func serveConnection(nc net.Conn, log *zap.Logger, cfg config.Config, loop *game.Loop) {
	connLog := log.With(zap.String("remote", nc.RemoteAddr().String()))
	c := conn.Accept(nc, connLog)

	next, err := c.RunHandshake()
	if err != nil {
		connLog.Debug("handshake failed", zap.Error(err))
		nc.Close()
		return
	}

	switch next {
	case conn.NextStatus:
		err := c.ServeStatus(conn.StatusInfo{
			MOTD:          cfg.MOTD,
			MaxPlayers:    cfg.MaxPlayers,
			OnlinePlayers: loop.PlayerCount(),
			ProtocolName:  "1.21.1",
		})
		if err != nil {
			connLog.Debug("status exchange failed", zap.Error(err))
		}
		nc.Close()
	case conn.NextLogin:
		serveLogin(c, connLog, loop, nc)
	}
}

func serveLogin(c *conn.Connection, log *zap.Logger, loop *game.Loop, nc net.Conn) {
	if _, err := c.RunLogin(); err != nil {
		log.Debug("login failed", zap.Error(err))
		nc.Close()
		return
	}

	configResult, err := c.RunConfiguration()
	if err != nil {
		log.Debug("configuration failed", zap.Error(err))
		nc.Close()
		return
	}

	handoff := c.ToPlay(configResult)
	log.Info("player joining", zap.String("player", configResult.Username))
	loop.Admit(handoff)
}

