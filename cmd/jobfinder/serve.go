package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"jobfinder-engine/internal/app"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/httpapi"
	"jobfinder-engine/internal/scheduler"
	"jobfinder-engine/internal/session"
	"jobfinder-engine/internal/sheet"
	"jobfinder-engine/internal/store"
)

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addrFlag := fs.String("addr", "", "listen address (default 127.0.0.1:<app.port>)")
	e, err := setup(fs, args, os.Stdout)
	if err != nil {
		return err
	}
	log := e.log

	db, err := store.Open(app.DBPath(e.cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := app.NewEngine(e.cfg, nil, log)
	if err != nil {
		return err
	}
	mailer := app.NewMailer(e.cfg, nil, log)

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(e.cfg)

	deps := httpapi.Deps{
		Search:      engine,
		Session:     session.New(store.NewSavedJobs(db.Pool)),
		Mailer:      mailer,
		Hub:         events.NewHub(),
		SyncStatus:  &atomic.Value{},
		Logger:      log,
		CfgVal:      &cfgVal,
		UserCfgPath: e.cfgPath,
		LoadCfg:     e.load,
		OnConfig:    engine.Apply,
		RunSync: func(ctx context.Context) (sheet.Report, error) {
			cfg := cfgVal.Load().(config.Config)
			sink, err := app.Sink(cfg, db.Pool, nil, log)
			if err != nil {
				return sheet.Report{}, err
			}
			return app.Sync(ctx, cfg, engine, sink, log, time.Now())
		},
	}

	sched := scheduler.New(log)
	if err := app.ScheduleDigest(ctx, sched, e.cfg, mailer, engine); err != nil {
		return err
	}
	syncer := deps.Syncer()
	if err := app.ScheduleSync(ctx, sched, e.cfg, func() bool { return syncer.Trigger("") }); err != nil {
		return err
	}
	sched.Start()

	addr := *addrFlag
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", e.cfg.App.Port)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := httpapi.NewMux(deps)
	srv := httpapi.Server(addr, nil)
	if tok := os.Getenv("JOBFINDER_SHUTDOWN_TOKEN"); tok != "" {
		mux.HandleFunc("/shutdown", shutdownHandler(tok, srv))
	}
	hl := log.With("component", "http")
	srv.Handler = httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover(hl), httpapi.AccessLog(hl), httpapi.Cors)

	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	log.Info("engine listening", "addr", "http://"+addr, "db", app.DBPath(e.cfg))

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errc:
		if err != nil {
			return err
		}
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	sched.Stop(shutCtx)
	return nil
}

// shutdownHandler lets a local parent process stop the engine. It needs a
// loopback caller and the shared token.
func shutdownHandler(token string, srv *http.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
			httpapi.WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
			return
		}

		got := r.Header.Get("X-Shutdown-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			httpapi.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("shutting down\n"))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}
}
