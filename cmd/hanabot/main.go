package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonhoo/hanabot/config"
	"github.com/jonhoo/hanabot/logger"
	"github.com/jonhoo/hanabot/server"
	"github.com/jonhoo/hanabot/session"
	"github.com/jonhoo/hanabot/store"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalw("could not load configuration", "error", err)
	}

	st := store.NewFileStore(cfg.StateFile)
	sess, err := st.Load()
	if err != nil {
		logger.Log.Fatalw("found past state, but failed to parse it", "error", err)
	}
	if sess == nil {
		sess = session.New()
		logger.Log.Infow("starting with a fresh session")
	} else {
		logger.Log.Infow("resumed session",
			"games", len(sess.Games), "players", len(sess.Players))
	}

	srv := server.NewServer(sess, st)
	srv.Addr = cfg.Addr

	go func() {
		logger.Log.Infow("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("server failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Log.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)

	// serialize state so we can later resume
	if err := st.Save(sess); err != nil {
		logger.Log.Errorw("failed to save session state", "error", err)
	}
}
