// Package testutil provides test helper utilities for trace tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// FakeJob is the wire shape the fake backend serves.
type FakeJob struct {
	ID        any    `json:"id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Upload records one multipart submission received by the fake backend.
type Upload struct {
	FileName string
	Content  string
	Token    string
}

// FakeAPI is an in-process TRACE backend for tests.
// Status overrides let tests force failures per endpoint.
type FakeAPI struct {
	Server *httptest.Server

	mu           sync.Mutex
	users        map[string]string // email -> password
	owner        string            // account the token belongs to
	token        string
	jobs         []FakeJob
	uploads      []Upload
	deleted      []string
	listCalls    int
	loginStatus  int
	uploadStatus int
	listStatus   int
	deleteStatus int
	block        chan struct{}
}

// NewFakeAPI starts a fake backend that accepts a single user and issues
// token for them. The server is closed when the test finishes.
func NewFakeAPI(t *testing.T, email, password, token string) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		users: map[string]string{email: password},
		owner: email,
		token: token,
	}

	r := mux.NewRouter()
	r.HandleFunc("/users/", f.handleRegister).Methods("POST")
	r.HandleFunc("/users/me/", f.handleMe).Methods("GET")
	r.HandleFunc("/token", f.handleToken).Methods("POST")
	r.HandleFunc("/analyses/", f.handleCreate).Methods("POST")
	r.HandleFunc("/analyses/", f.handleList).Methods("GET")
	r.HandleFunc("/analyses/{id}", f.handleDelete).Methods("DELETE")

	f.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		f.Unblock()
		f.Server.Close()
	})
	return f
}

// URL returns the fake backend's base URL.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// SetJobs replaces the roster the backend returns.
func (f *FakeAPI) SetJobs(jobs ...FakeJob) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append([]FakeJob(nil), jobs...)
}

// FailLogin, FailUpload, FailList and FailDelete force the given status.
// Zero restores normal behaviour.
func (f *FakeAPI) FailLogin(status int)  { f.setStatus(&f.loginStatus, status) }
func (f *FakeAPI) FailUpload(status int) { f.setStatus(&f.uploadStatus, status) }
func (f *FakeAPI) FailList(status int)   { f.setStatus(&f.listStatus, status) }
func (f *FakeAPI) FailDelete(status int) { f.setStatus(&f.deleteStatus, status) }

// Block makes every request wait until Unblock is called.
func (f *FakeAPI) Block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.block == nil {
		f.block = make(chan struct{})
	}
}

// Unblock releases requests held by Block.
func (f *FakeAPI) Unblock() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.block != nil {
		close(f.block)
		f.block = nil
	}
}

// Uploads returns the submissions received so far.
func (f *FakeAPI) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Upload(nil), f.uploads...)
}

// Deleted returns the job ids deleted so far.
func (f *FakeAPI) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// ListCalls returns how many roster fetches reached the backend.
func (f *FakeAPI) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *FakeAPI) setStatus(field *int, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*field = status
}

func (f *FakeAPI) wait(r *http.Request) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block == nil {
		return
	}
	select {
	case <-block:
	case <-r.Context().Done():
	}
}

func (f *FakeAPI) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+f.token
}

func (f *FakeAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	f.wait(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	status := f.loginStatus
	want, ok := f.users[r.PostForm.Get("username")]
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok || want != r.PostForm.Get("password") {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": f.token, "token_type": "bearer"})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	f.wait(r)
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "email and password required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.users[req.Email]; taken {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
		return
	}
	f.users[req.Email] = req.Password
	writeJSON(w, http.StatusOK, map[string]any{"id": len(f.users), "email": req.Email, "jobs": []FakeJob{}})
}

func (f *FakeAPI) handleMe(w http.ResponseWriter, r *http.Request) {
	f.wait(r)
	if !f.authorized(r) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}

	f.mu.Lock()
	jobs := append([]FakeJob{}, f.jobs...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"id": 1, "email": f.owner, "jobs": jobs})
}

// HasUser reports whether email has an account.
func (f *FakeAPI) HasUser(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[email]
	return ok
}

func (f *FakeAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	f.wait(r)
	if !f.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	status := f.uploadStatus
	f.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file part", http.StatusUnprocessableEntity)
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	f.mu.Lock()
	f.uploads = append(f.uploads, Upload{
		FileName: header.Filename,
		Content:  string(data),
		Token:    strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
	})
	f.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
}

func (f *FakeAPI) handleList(w http.ResponseWriter, r *http.Request) {
	f.wait(r)
	f.mu.Lock()
	f.listCalls++
	status := f.listStatus
	jobs := append([]FakeJob{}, f.jobs...)
	f.mu.Unlock()

	if !f.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (f *FakeAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	f.wait(r)
	if !f.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteStatus != 0 {
		w.WriteHeader(f.deleteStatus)
		return
	}
	f.deleted = append(f.deleted, id)
	kept := f.jobs[:0]
	for _, j := range f.jobs {
		if fmt.Sprint(j.ID) != id {
			kept = append(kept, j)
		}
	}
	f.jobs = kept
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
