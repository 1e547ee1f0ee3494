package httpapi

import (
	"net/http"
	"time"

	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/session"
)

// NewMux returns the raw mux so callers can attach extra routes before
// wrapping it with Handler.
func NewMux(d Deps) *http.ServeMux {
	log := d.logger()
	if d.Session == nil {
		d.Session = session.New(nil)
	}
	if d.Hub == nil {
		d.Hub = events.NewHub()
	}
	mux := http.NewServeMux()

	// Search
	sh := SearchHandler{
		Search:  d.Search,
		Session: d.Session,
		Mailer:  d.Mailer,
		Hub:     d.Hub,
		CfgVal:  d.CfgVal,
		Log:     log.With("component", "search_api"),
	}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Run,
	}))
	mux.HandleFunc("/search/options", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Buckets,
	}))

	// Jobs (current batch)
	jh := JobsHandler{Session: d.Session, Now: d.Now}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/tags", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Tags,
	}))
	mux.HandleFunc("/jobs/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Stats,
	}))
	mux.HandleFunc("/jobs/export.csv", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Export,
	}))

	// Saved jobs
	svh := SavedHandler{Session: d.Session, Hub: d.Hub, Now: d.Now}
	mux.HandleFunc("/saved", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    svh.List,
		http.MethodPost:   svh.Save,
		http.MethodDelete: svh.Clear,
	}))
	mux.HandleFunc("/saved/export.csv", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: svh.Export,
	}))
	mux.HandleFunc("/saved/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: svh.DeleteByPath, // expects /saved/{n}
	}))

	// Digest
	dh := DigestHandler{Mailer: d.Mailer, CfgVal: d.CfgVal}
	mux.HandleFunc("/digest/test", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Test,
	}))
	mux.HandleFunc("/digest", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Status,
	}))

	// Spreadsheet sync
	sy := d.Syncer()
	mux.HandleFunc("/sync/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sy.Status,
	}))
	mux.HandleFunc("/sync/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sy.Run,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		OnConfig:    d.OnConfig,
		Hub:         d.Hub,
		Log:         log.With("component", "config_api"),
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sec := SecretsHandler{}
	mux.HandleFunc("/secrets", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sec.Status,
	}))
	mux.HandleFunc("/secrets/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut:    sec.Set,
		http.MethodDelete: sec.Delete,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{Started: d.now(), Session: d.Session}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	ih := IndexHandler{Session: d.Session}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.Page,
	}))

	return mux
}

// Handler is NewMux wrapped in the standard middleware chain.
func Handler(d Deps) http.Handler {
	log := d.logger().With("component", "http")
	return Chain(NewMux(d), RequestID, Recover(log), AccessLog(log), Cors)
}

// Server builds the http.Server the way main runs it.
func Server(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
