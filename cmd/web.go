package cmd

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/dataplans/cmd/web/components"
	"github.com/rubiojr/dataplans/cmd/web/components/types"
	"github.com/rubiojr/dataplans/pkg/api"
	"github.com/rubiojr/dataplans/pkg/config"
	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/filter"
	"github.com/rubiojr/dataplans/pkg/log"
	"github.com/rubiojr/dataplans/pkg/paginate"
	"github.com/rubiojr/dataplans/pkg/render"
	"github.com/rubiojr/dataplans/pkg/report"
	"github.com/rubiojr/dataplans/pkg/search"
	"github.com/rubiojr/dataplans/pkg/session"
	"github.com/rubiojr/dataplans/pkg/store"
	"github.com/rubiojr/dataplans/pkg/version"
	"github.com/urfave/cli/v3"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

const (
	flashInfo  = "info"
	flashError = "error"
)

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (default from config)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (default from config)",
			},
			dataFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return startWebServer(ctx, cfg)
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	config    *config.Config
	store     *store.Store
	engine    *search.Engine
	reports   *report.Generator
	sessions  *session.Store[types.State]
	cards     *render.Registry
	detail    render.CardRenderer
	templates *template.Template
	apiServer *api.Server
	defaults  search.Params
	logger    *log.Logger
}

// NewWebServer loads the dataset and prepares the UI. It fails when the
// dataset cannot be loaded.
func NewWebServer(cfg *config.Config, st *store.Store) (*WebServer, error) {
	records, err := st.Load()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("").Funcs(render.GetTemplateFuncs()).ParseFS(webFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	engine := search.NewEngine(records, codeBoost(cfg))
	reports := report.New()
	defaults := searchDefaults(cfg)

	apiServer := api.NewServer(st, engine, reports)
	apiServer.SetDefaults(defaults)

	return &WebServer{
		config:    cfg,
		store:     st,
		engine:    engine,
		reports:   reports,
		sessions:  session.New[types.State](cfg.Web.SessionTTL.Duration, cfg.Web.MaxSessions),
		cards:     render.DefaultRegistry(),
		detail:    render.NewDetailRenderer(),
		templates: tmpl,
		apiServer: apiServer,
		defaults:  defaults,
		logger:    log.ForService("web"),
	}, nil
}

// Handler returns the UI and API routes with CORS and gzip compression.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes
	s.apiServer.RegisterRoutes(mux)

	// Web UI routes
	mux.HandleFunc("GET /", s.handleHome)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /browse", s.handleBrowse)
	mux.HandleFunc("POST /clear", s.handleClear)
	mux.HandleFunc("GET /export/{format}", s.handleExport)
	mux.HandleFunc("GET /package/{code}", s.handlePackage)

	// Static assets
	static, _ := fs.Sub(webFS, "web")
	mux.Handle("GET /static/", http.FileServer(http.FS(static)))

	return gzhttp.GzipHandler(api.CorsMiddleware(mux))
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, cfg *config.Config) error {
	logger := log.ForService("web")

	webServer, err := NewWebServer(cfg, store.New(cfg.DataFile))
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Web.Addr(),
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting web server on http://%s", cfg.Web.Addr())
		logger.Infof("available endpoints:")
		logger.Infof("  GET  /                     search page")
		logger.Infof("  POST /search, /browse, /clear")
		logger.Infof("  GET  /export/{format}      xlsx, csv or summary of the current results")
		logger.Infof("  GET  /package/{code}       package details")
		logger.Infof("  GET  /api/search           JSON search")
		logger.Infof("  GET  /api/browse           JSON browse with filters")
		logger.Infof("  GET  /api/packages/{code}  JSON package lookup")
		logger.Infof("  GET  /api/suggest          code suggestions")
		logger.Infof("  GET  /api/stats            dataset statistics")
		logger.Infof("  GET  /api/export/{format}  export without a session")
		logger.Infof("  GET  /health               health check")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	}

	logger.Infof("shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func (s *WebServer) freshState() types.State {
	return components.NewState(s.defaults)
}

func (s *WebServer) flash(st types.State, kind, msg string) types.State {
	st.Flash = msg
	st.FlashKind = kind
	return st
}

func (s *WebServer) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *WebServer) renderTemplate(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Errorf("rendering %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debugf("writing %s: %v", name, err)
	}
}

// Web UI Handlers

// handleHome renders the search page from the session state. Navigation
// query values update the state; the flash message is shown once.
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	id, st := s.sessions.Load(w, r, s.freshState)
	st = components.ApplyNavigation(st, r.URL.Query())

	data := s.pageData(st)
	st.Page = data.Page.Number
	st.Flash, st.FlashKind = "", ""
	s.sessions.Put(id, st)

	s.renderTemplate(w, http.StatusOK, "index.html", data)
}

func (s *WebServer) pageData(st types.State) types.PageData {
	stats, err := s.store.Stats()
	if err != nil {
		s.logger.Errorf("stats: %v", err)
	}

	page := paginate.Paginate(st.Results.Matches, st.Size, st.Page)
	data := types.PageData{
		Title:     "Tra cứu gói cước",
		Version:   version.Version,
		DataFile:  s.store.Path(),
		Stats:     stats,
		Params:    st.Params,
		Sources:   components.SourceOptions(stats, st.Criteria.Sources),
		PriceMin:  components.FormatBound(st.Criteria.PriceMin),
		PriceMax:  components.FormatBound(st.Criteria.PriceMax),
		DataMin:   components.FormatBound(st.Criteria.DataMin),
		DataMax:   components.FormatBound(st.Criteria.DataMax),
		Results:   st.Results,
		HasResult: !st.Results.Empty(),
		Page:      page,
		Window:    page.Window(7),
		View:      st.View,
		ShowFull:  st.ShowFull,
		PageSizes: paginate.PageSizes,
		Formats:   report.Formats,
		Samples:   components.SampleQueries,
	}

	if st.View == types.ViewCards {
		for _, m := range page.Items {
			data.Cards = append(data.Cards, s.cards.Render(m))
		}
	}

	switch st.FlashKind {
	case flashError:
		data.Error = st.Flash
	case flashInfo:
		data.Success = st.Flash
	}
	return data
}

// handleSearch runs a fuzzy or regex search with the active filters and
// stores the result in the session.
func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id, st := s.sessions.Load(w, r, s.freshState)
	defer s.redirectHome(w, r)

	params, err := search.ParseParamsFrom(s.defaults, r.PostForm)
	if err != nil {
		s.sessions.Put(id, s.flash(st, flashError, err.Error()))
		return
	}
	criteria, err := filter.Parse(r.PostForm)
	if err != nil {
		s.sessions.Put(id, s.flash(st, flashError, err.Error()))
		return
	}
	st.Params = params
	st.Criteria = criteria

	if params.Query == "" {
		st.Results = core.ResultSet{}
		s.sessions.Put(id, s.flash(st, flashInfo, "Vui lòng nhập từ khóa tìm kiếm"))
		return
	}

	rs, err := s.engine.Run(params, keepFunc(criteria))
	if err != nil {
		s.sessions.Put(id, s.flash(st, flashError, err.Error()))
		return
	}
	s.logger.Debugf("search %q mode=%s: %d matches", params.Query, params.Mode, rs.Len())

	st.Results = rs
	st.Page = 1
	if rs.Empty() {
		st = s.flash(st, flashInfo, "Không tìm thấy gói cước nào cho \""+params.Query+"\"")
	} else {
		st = s.flash(st, flashInfo, components.ResultMessage(rs))
	}
	s.sessions.Put(id, st)
}

// handleBrowse lists every record accepted by the submitted filters.
func (s *WebServer) handleBrowse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id, st := s.sessions.Load(w, r, s.freshState)
	defer s.redirectHome(w, r)

	criteria, err := filter.Parse(r.PostForm)
	if err != nil {
		s.sessions.Put(id, s.flash(st, flashError, err.Error()))
		return
	}

	rs := s.engine.Browse(keepFunc(criteria))
	st.Criteria = criteria
	st.Params.Query = ""
	st.Results = rs
	st.Page = 1
	if rs.Empty() {
		st = s.flash(st, flashInfo, "Không có gói cước nào phù hợp bộ lọc")
	} else {
		st = s.flash(st, flashInfo, components.ResultMessage(rs))
	}
	s.sessions.Put(id, st)
}

func (s *WebServer) handleClear(w http.ResponseWriter, r *http.Request) {
	id, st := s.sessions.Load(w, r, s.freshState)
	st.Results = core.ResultSet{}
	st.Params.Query = ""
	st.Page = 1
	s.sessions.Put(id, s.flash(st, flashInfo, "Đã xóa kết quả tìm kiếm"))
	s.redirectHome(w, r)
}

// handleExport sends the session's full result set as a download. Failures
// become a flash message on the search page.
func (s *WebServer) handleExport(w http.ResponseWriter, r *http.Request) {
	id, st := s.sessions.Load(w, r, s.freshState)

	f, err := report.ParseFormat(r.PathValue("format"))
	if err == nil {
		var data []byte
		data, err = s.reports.Generate(f, st.Results)
		if err == nil {
			name := report.Filename(f, s.reports.Now())
			w.Header().Set("Content-Type", f.ContentType())
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			if _, err := w.Write(data); err != nil {
				s.logger.Warnf("writing %s: %v", name, err)
			}
			return
		}
	}

	msg := err.Error()
	var ge *core.GenerationError
	if errors.As(err, &ge) {
		msg = "Không thể xuất báo cáo: " + ge.Message
	}
	s.sessions.Put(id, s.flash(st, flashError, msg))
	s.redirectHome(w, r)
}

func (s *WebServer) handlePackage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	data := types.DetailData{
		Title:   "Gói " + code,
		Version: version.Version,
		Code:    code,
	}

	status := http.StatusNotFound
	if m, ok := s.engine.Exact(code); ok {
		data.Found = true
		data.Card = s.detail.Render(m)
		status = http.StatusOK
	}
	s.renderTemplate(w, status, "package.html", data)
}
