package server_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"handraise/internal/server"
	"handraise/internal/utils"
	"handraise/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// In-memory store fakes. They honor the documented repository contracts
// (sentinel errors, duplicate checks) so handlers can be exercised without a
// database.

type fakeJobStore struct {
	jobs       map[string]*types.Job
	listings   map[string]*types.JobListing
	searchOut  []*types.JobListing
	searchTot  int64
	lastSearch types.JobSearchParams
	deleteErr  error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobs:     make(map[string]*types.Job),
		listings: make(map[string]*types.JobListing),
	}
}

func (f *fakeJobStore) Search(_ context.Context, params types.JobSearchParams) ([]*types.JobListing, int64, error) {
	f.lastSearch = params
	return f.searchOut, f.searchTot, nil
}

func (f *fakeJobStore) Job(_ context.Context, jobID string) (*types.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, types.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobStore) JobListing(_ context.Context, jobID string) (*types.JobListing, error) {
	if listing, ok := f.listings[jobID]; ok {
		return listing, nil
	}
	if job, ok := f.jobs[jobID]; ok {
		return &types.JobListing{Job: *job, PositionsRemaining: job.VolunteersNeeded}, nil
	}
	return nil, types.ErrJobNotFound
}

func (f *fakeJobStore) CreateJob(_ context.Context, job *types.Job) error {
	job.ID = utils.NanoID()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobStore) UpdateJobFields(_ context.Context, jobID string, fields map[string]any) error {
	if _, ok := f.jobs[jobID]; !ok {
		return types.ErrJobNotFound
	}
	if title, ok := fields["title"].(string); ok {
		f.jobs[jobID].Title = title
	}
	return nil
}

func (f *fakeJobStore) DeleteJob(_ context.Context, jobID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.jobs[jobID]; !ok {
		return types.ErrJobNotFound
	}
	delete(f.jobs, jobID)
	return nil
}

type fakeApplicationStore struct {
	jobs *fakeJobStore
	apps map[string]*types.JobApplication
}

func newFakeApplicationStore(jobs *fakeJobStore) *fakeApplicationStore {
	return &fakeApplicationStore{jobs: jobs, apps: make(map[string]*types.JobApplication)}
}

func (f *fakeApplicationStore) Apply(_ context.Context, app *types.JobApplication) error {
	job, ok := f.jobs.jobs[app.JobID]
	if !ok {
		return types.ErrJobNotFound
	}
	if job.Status != types.JobStatusActive {
		return types.ErrJobNotActive
	}
	if !job.ExpiresAt.After(time.Now()) {
		return types.ErrJobExpired
	}
	for _, existing := range f.apps {
		if existing.JobID == app.JobID && existing.ApplicantEmail == app.ApplicantEmail {
			return types.ErrDuplicateApplication
		}
	}

	app.ID = utils.NanoID()
	app.Status = types.ApplicationStatusPending
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	f.apps[app.ID] = app
	return nil
}

func (f *fakeApplicationStore) Application(_ context.Context, id string) (*types.JobApplication, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, types.ErrApplicationNotFound
	}
	return app, nil
}

func (f *fakeApplicationStore) Applications(_ context.Context, params types.ApplicationListParams) ([]*types.JobApplication, int64, error) {
	var out []*types.JobApplication
	for _, app := range f.apps {
		if params.JobID != "" && app.JobID != params.JobID {
			continue
		}
		if params.Status != "" && app.Status != params.Status {
			continue
		}
		out = append(out, app)
	}
	return out, int64(len(out)), nil
}

func (f *fakeApplicationStore) ApplicationsByJob(_ context.Context, jobID string) ([]*types.JobApplication, error) {
	var out []*types.JobApplication
	for _, app := range f.apps {
		if app.JobID == jobID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) UpdateStatus(_ context.Context, id string, status types.ApplicationStatus) error {
	app, ok := f.apps[id]
	if !ok {
		return types.ErrApplicationNotFound
	}
	app.Status = status
	return nil
}

func (f *fakeApplicationStore) Volunteers(_ context.Context, page, limit int) ([]*types.Volunteer, int64, error) {
	var out []*types.Volunteer
	for _, app := range f.apps {
		if app.Status != types.ApplicationStatusAccepted {
			continue
		}
		out = append(out, &types.Volunteer{
			ApplicationID:  app.ID,
			ApplicantName:  app.ApplicantName,
			ApplicantEmail: app.ApplicantEmail,
			JobID:          app.JobID,
		})
	}
	return out, int64(len(out)), nil
}

type fakeUserStore struct {
	users map[string]*types.User // by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*types.User)}
}

func (f *fakeUserStore) User(_ context.Context, userID string) (*types.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UserByUsername(_ context.Context, username string) (*types.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (*types.User, error) {
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			return user, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (f *fakeUserStore) Users(_ context.Context, page, limit int) ([]*types.User, int64, error) {
	var out []*types.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *types.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return types.ErrDuplicateUser
		}
	}
	user.ID = utils.NanoID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

type fakeSessionStore struct {
	users    *fakeUserStore
	sessions map[string]*types.Session
}

func newFakeSessionStore(users *fakeUserStore) *fakeSessionStore {
	return &fakeSessionStore{users: users, sessions: make(map[string]*types.Session)}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, userID string, ttl time.Duration) (*types.Session, error) {
	session := &types.Session{
		Token:     utils.NanoIDSize(48),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
	f.sessions[session.Token] = session
	return session, nil
}

func (f *fakeSessionStore) UserForToken(_ context.Context, token string) (*types.User, error) {
	session, ok := f.sessions[token]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, types.ErrNoSession
	}
	user, ok := f.users.users[session.UserID]
	if !ok || !user.IsActive {
		return nil, types.ErrNoSession
	}
	return user, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

type fakeCategoryStore struct {
	categories map[string]*types.JobCategory
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[string]*types.JobCategory)}
}

func (f *fakeCategoryStore) ActiveCategories(_ context.Context) ([]*types.JobCategory, error) {
	var out []*types.JobCategory
	for _, c := range f.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) AllCategories(_ context.Context) ([]*types.JobCategory, error) {
	var out []*types.JobCategory
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryStore) CategoryByID(_ context.Context, id string) (*types.JobCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, types.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryStore) CreateCategory(_ context.Context, category *types.JobCategory) error {
	category.ID = utils.NanoID()
	category.CreatedAt = time.Now()
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryStore) UpdateCategoryFields(_ context.Context, id string, fields map[string]any) error {
	if _, ok := f.categories[id]; !ok {
		return types.ErrCategoryNotFound
	}
	return nil
}

type fakeLogStore struct {
	partnerships map[string]*types.PartnershipLog
	activities   map[string]*types.ActivityLog
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{
		partnerships: make(map[string]*types.PartnershipLog),
		activities:   make(map[string]*types.ActivityLog),
	}
}

func (f *fakeLogStore) CreatePartnershipLog(_ context.Context, log *types.PartnershipLog) error {
	log.ID = utils.NanoID()
	log.CreatedAt = time.Now()
	f.partnerships[log.ID] = log
	return nil
}

func (f *fakeLogStore) PartnershipLog(_ context.Context, id string) (*types.PartnershipLog, error) {
	log, ok := f.partnerships[id]
	if !ok {
		return nil, types.ErrLogNotFound
	}
	log.TotalHours = types.SumEventHours(log.Events)
	return log, nil
}

func (f *fakeLogStore) CreateActivityLog(_ context.Context, log *types.ActivityLog) error {
	log.ID = utils.NanoID()
	log.CreatedAt = time.Now()
	f.activities[log.ID] = log
	return nil
}

func (f *fakeLogStore) ActivityLog(_ context.Context, id string) (*types.ActivityLog, error) {
	log, ok := f.activities[id]
	if !ok {
		return nil, types.ErrLogNotFound
	}
	log.TotalHours = types.SumEntryHours(log.Entries)
	return log, nil
}

type testEnv struct {
	srv        *httptest.Server
	jobs       *fakeJobStore
	apps       *fakeApplicationStore
	users      *fakeUserStore
	sessions   *fakeSessionStore
	categories *fakeCategoryStore
	logs       *fakeLogStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		ServerPort:       0,
		CookieName:       "session_token",
		SessionMaxAgeSec: 3600,
		CookieHashKey:    base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x4a}, 32)),
		CookieBlockKey:   base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x2b}, 32)),
	}

	jobs := newFakeJobStore()
	apps := newFakeApplicationStore(jobs)
	users := newFakeUserStore()
	sessions := newFakeSessionStore(users)
	categories := newFakeCategoryStore()
	logs := newFakeLogStore()

	svc, err := server.New(config, logger, jobs, apps, users, sessions, categories, logs,
		func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}

	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:        srv,
		jobs:       jobs,
		apps:       apps,
		users:      users,
		sessions:   sessions,
		categories: categories,
		logs:       logs,
	}
}

// addUser registers a user directly in the fake store with a bcrypt-hashed
// password and returns it.
func (e *testEnv) addUser(t *testing.T, username string, role types.UserRole, password string) *types.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	user := &types.User{
		Username:     username,
		Email:        username + "@example.org",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := e.users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// login performs a real login round-trip and returns the session cookie.
func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	res, err := http.Post(e.srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", res.StatusCode)
	}
	for _, cookie := range res.Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

// do sends a JSON request, optionally authenticated, and decodes the body.
func (e *testEnv) do(t *testing.T, method, path string, payload any, cookie *http.Cookie) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer res.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(res.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: response is not JSON: %s", method, path, raw)
		}
	}

	return res.StatusCode, decoded
}
