package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gliderlabs/ssh"
	"github.com/qnkhuat/netchess/pkg"
	"go.uber.org/zap"
)

func main() {
	logPath := flag.String("log", "", "path to log file (default stderr)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	addr := flag.String("listen", pkg.ServerPort, "relay address")
	redisURL := flag.String("redis", os.Getenv("REDIS_URL"), "redis url for the match archive (optional)")
	sshAddr := flag.String("ssh", "", "serve the client over ssh on this address, e.g. "+pkg.SshPort)
	clientPath := flag.String("client", "chessterm", "client binary run for ssh sessions")
	hostKey := flag.String("host-key", "", "ssh host key file (default: ephemeral key)")
	recent := flag.Int64("recent", 0, "print the last n archived matches and exit")
	flag.Parse()

	logger, err := pkg.InitLog(*logPath, "server", *logLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var archive *pkg.Archive
	if *redisURL != "" {
		archive, err = pkg.NewArchive(*redisURL)
		if err != nil {
			zap.L().Fatal("redis", zap.Error(err))
		}
		defer archive.Close()
		zap.L().Info("archiving matches to redis")
	}

	if *recent > 0 {
		if err := printRecent(ctx, archive, *recent); err != nil {
			zap.L().Fatal("recent matches", zap.Error(err))
		}
		return
	}

	if *sshAddr != "" {
		sshServer, err := pkg.NewSSHServer(*sshAddr, *clientPath, *hostKey)
		if err != nil {
			zap.L().Fatal("ssh", zap.Error(err))
		}
		go func() {
			zap.L().Info("ssh listening", zap.String("address", *sshAddr))
			if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				zap.L().Error("ssh stopped", zap.Error(err))
			}
		}()
		defer sshServer.Close()
	}

	s := pkg.NewServer(*addr, archive)
	if err := s.ListenAndServe(ctx); err != nil {
		zap.L().Fatal("relay", zap.Error(err))
	}
	zap.L().Info("server stopped")
}

func printRecent(ctx context.Context, archive *pkg.Archive, n int64) error {
	if archive == nil {
		return errors.New("no archive configured, pass -redis")
	}
	ids, err := archive.Recent(ctx, n)
	if err != nil {
		return err
	}
	for _, id := range ids {
		info, err := archive.Info(ctx, id)
		if err != nil {
			return err
		}
		if info == nil {
			continue
		}
		moves, err := archive.Moves(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %-20s %s vs %s  %s (%d moves) %s\n",
			info.ID, info.Name, info.White, info.Black, info.Status, len(moves), info.Reason)
	}
	return nil
}
