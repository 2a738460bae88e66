package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sqluploader/internal/core"
	"github.com/JonMunkholm/sqluploader/internal/logging"
	"github.com/JonMunkholm/sqluploader/internal/web/templates"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before the rest spills to temp files.
const multipartMemory = 32 << 20

// handleIndex renders the connect form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	form := templates.ConnectForm{
		Host: s.cfg.Database.DefaultHost,
		Port: s.cfg.Database.DefaultPort,
	}
	if conn, err := s.sessions.connection(r); err == nil {
		form = templates.ConnectForm{Host: conn.Host, Port: conn.Port, User: conn.User, Database: conn.Database}
	}

	s.render(w, r, templates.ConnectPage(form, s.sessions.popFlashes(w, r)))
}

// handleConnect validates the submitted credentials and keeps them in the
// session when a connection succeeds.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectWithFlash(w, r, templates.FlashDanger, "Connection failed: "+err.Error(), "/")
		return
	}

	conn, err := s.connectionFromForm(r)
	if err != nil {
		s.redirectWithFlash(w, r, templates.FlashDanger, "Connection failed: "+err.Error(), "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Database.ConnectTimeout)
	defer cancel()

	check := s.check(ctx, conn)
	if !check.OK {
		s.logger.Warn("connection check failed",
			"target", conn.String(),
			"error", check.Message,
			"code", check.Hint.Code,
		)
		s.redirectWithFlash(w, r, templates.FlashDanger, "Connection failed: "+check.Message, "/")
		return
	}

	if err := s.sessions.setConnection(w, r, conn); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.logger.Info("connected", "target", conn.String())
	s.redirectWithFlash(w, r, templates.FlashSuccess, "Successfully connected to database!", "/upload")
}

// connectionFromForm reads the connect form. Host and port fall back to
// the configured defaults; TLS mode and timeout always come from config.
func (s *Server) connectionFromForm(r *http.Request) (core.ConnectionConfig, error) {
	host := strings.TrimSpace(r.PostFormValue("host"))
	if host == "" {
		host = s.cfg.Database.DefaultHost
	}

	port := s.cfg.Database.DefaultPort
	if raw := strings.TrimSpace(r.PostFormValue("port")); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 || p > 65535 {
			return core.ConnectionConfig{}, errors.New("invalid port " + strconv.Quote(raw))
		}
		port = p
	}

	return s.withTransport(core.ConnectionConfig{
		Host:     host,
		Port:     port,
		User:     strings.TrimSpace(r.PostFormValue("user")),
		Password: r.PostFormValue("password"),
		Database: strings.TrimSpace(r.PostFormValue("database")),
	}), nil
}

// withTransport applies the server-wide connection settings that are not
// part of the form.
func (s *Server) withTransport(c core.ConnectionConfig) core.ConnectionConfig {
	c.SSLMode = s.cfg.Database.SSLMode
	c.ConnectTimeout = s.cfg.Database.ConnectTimeout
	return c
}

// handleUploadPage renders the upload form for a connected session.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	conn, err := s.sessions.connection(r)
	if err != nil {
		s.redirectWithFlash(w, r, templates.FlashWarning, "Please connect to database first", "/")
		return
	}

	s.render(w, r, templates.UploadPage(conn.String(), s.cfg.Upload.AllowedExtensions, s.sessions.popFlashes(w, r)))
}

// handleProcess loads every submitted file and flashes one result line
// per file.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	conn, err := s.sessions.connection(r)
	if err != nil {
		s.redirectWithFlash(w, r, templates.FlashWarning, "Please connect to database first", "/")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxRequestSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.logger.Warn("parse upload", "error", err)
		s.redirectWithFlash(w, r, templates.FlashDanger, core.FormatUserError(err), "/upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	files := make([]core.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		files = append(files, core.UploadFile{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	if len(files) == 0 {
		s.redirectWithFlash(w, r, templates.FlashDanger, "No files selected", "/upload")
		return
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.redirectWithFlash(w, r, templates.FlashWarning, core.FormatUserError(err), "/upload")
		return
	}
	defer s.limiter.Release()

	ctx := withRequestMetadata(r.Context(), r)
	logging.WithFields(ctx, "files", len(files), "target", conn.String()).Info("batch accepted")
	outcomes := s.processor.Process(ctx, s.withTransport(conn), files)

	if err := s.sessions.flashResult(w, r, core.JoinOutcomes(outcomes, "\n")); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/upload", http.StatusSeeOther)
}

// handleDisconnect forgets the session's credentials.
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.clearConnection(w, r); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.redirectWithFlash(w, r, templates.FlashInfo, "Disconnected", "/")
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"active_batches": s.limiter.Active(),
		"max_batches":    s.limiter.Capacity(),
	})
}

// redirectWithFlash queues a flash and redirects. POSTs get 303 so the
// browser follows with a GET.
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, category, message, to string) {
	if err := s.sessions.flash(w, r, category, message); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	status := http.StatusFound
	if r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, to, status)
}

// render writes an HTML page. Rendering happens into the response directly;
// a failure after the header is sent can only be logged.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		s.logger.Error("render page", "path", r.URL.Path, "error", err)
	}
}
