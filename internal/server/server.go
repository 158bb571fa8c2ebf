package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"handraise/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates
var uiFS embed.FS

var decoder = form.NewDecoder()

// Store interfaces accepted by the service; the concrete implementations
// live in internal/store.

type JobStore interface {
	Search(ctx context.Context, params types.JobSearchParams) ([]*types.JobListing, int64, error)
	Job(ctx context.Context, jobID string) (*types.Job, error)
	JobListing(ctx context.Context, jobID string) (*types.JobListing, error)
	CreateJob(ctx context.Context, job *types.Job) error
	UpdateJobFields(ctx context.Context, jobID string, fields map[string]any) error
	DeleteJob(ctx context.Context, jobID string) error
}

type ApplicationStore interface {
	Apply(ctx context.Context, app *types.JobApplication) error
	Application(ctx context.Context, id string) (*types.JobApplication, error)
	Applications(ctx context.Context, params types.ApplicationListParams) ([]*types.JobApplication, int64, error)
	ApplicationsByJob(ctx context.Context, jobID string) ([]*types.JobApplication, error)
	UpdateStatus(ctx context.Context, id string, status types.ApplicationStatus) error
	Volunteers(ctx context.Context, page, limit int) ([]*types.Volunteer, int64, error)
}

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByUsername(ctx context.Context, username string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Users(ctx context.Context, page, limit int) ([]*types.User, int64, error)
	CreateUser(ctx context.Context, user *types.User) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, userID string, ttl time.Duration) (*types.Session, error)
	UserForToken(ctx context.Context, token string) (*types.User, error)
	DeleteSession(ctx context.Context, token string) error
}

type CategoryStore interface {
	ActiveCategories(ctx context.Context) ([]*types.JobCategory, error)
	AllCategories(ctx context.Context) ([]*types.JobCategory, error)
	CategoryByID(ctx context.Context, id string) (*types.JobCategory, error)
	CreateCategory(ctx context.Context, category *types.JobCategory) error
	UpdateCategoryFields(ctx context.Context, id string, fields map[string]any) error
}

type LogStore interface {
	CreatePartnershipLog(ctx context.Context, log *types.PartnershipLog) error
	PartnershipLog(ctx context.Context, id string) (*types.PartnershipLog, error)
	CreateActivityLog(ctx context.Context, log *types.ActivityLog) error
	ActivityLog(ctx context.Context, id string) (*types.ActivityLog, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	jobs       JobStore
	apps       ApplicationStore
	users      UserStore
	sessions   SessionStore
	categories CategoryStore
	logs       LogStore

	migrate func(ctx context.Context) error

	cookie    *securecookie.SecureCookie
	templates *template.Template

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	jobs JobStore,
	apps ApplicationStore,
	users UserStore,
	sessions SessionStore,
	categories CategoryStore,
	logs LogStore,
	migrate func(ctx context.Context) error,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		jobs:       jobs,
		apps:       apps,
		users:      users,
		sessions:   sessions,
		categories: categories,
		logs:       logs,
		migrate:    migrate,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, primarily for httptest.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/jobs", s.handleListJobs, http.MethodGet)
	r.HandleFunc("/jobs/:id", s.handleGetJob, http.MethodGet)

	r.HandleFunc("/job-applications", s.handleCreateApplication, http.MethodPost)

	r.HandleFunc("/auth/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout, http.MethodPost)
	r.HandleFunc("/auth/session", s.handleSession, http.MethodGet)

	r.HandleFunc("/categories", s.handleListCategories, http.MethodGet)
	r.HandleFunc("/users", s.handleCreateUser, http.MethodPost)

	r.HandleFunc("/partnership-logs", s.handleCreatePartnershipLog, http.MethodPost)
	r.HandleFunc("/partnership-logs/:id/print", s.handlePrintPartnershipLog, http.MethodGet)
	r.HandleFunc("/activity-logs", s.handleCreateActivityLog, http.MethodPost)
	r.HandleFunc("/activity-logs/:id/print", s.handlePrintActivityLog, http.MethodGet)

	r.HandleFunc("/migrate", s.handleMigrate, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/jobs", s.handleCreateJob, http.MethodPost)
		r.HandleFunc("/jobs/:id", s.handleUpdateJob, http.MethodPut)
		r.HandleFunc("/jobs/:id", s.handleDeleteJob, http.MethodDelete)

		r.HandleFunc("/job-applications", s.handleListApplications, http.MethodGet)
		r.HandleFunc("/job-applications", s.handleUpdateApplication, http.MethodPut)

		r.HandleFunc("/volunteers", s.handleListVolunteers, http.MethodGet)

		r.HandleFunc("/categories", s.handleCreateCategory, http.MethodPost)
		r.HandleFunc("/categories", s.handleUpdateCategory, http.MethodPut)

		r.HandleFunc("/users", s.handleListUsers, http.MethodGet)
	})
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"hours": func(h float64) string {
			return fmt.Sprintf("%.1f", h)
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) handleMigrate(w http.ResponseWriter, r *http.Request) {
	if err := s.migrate(r.Context()); err != nil {
		s.logger.WithError(err).Error("migration failed")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "schema is up to date"})
}
