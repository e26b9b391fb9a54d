package testutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"taskdeck/internal/service"
)

// Failure is a canned error response for a route.
type Failure struct {
	Status int
	Body   string
}

// RecordedRequest is a request seen by FakeAPI.
type RecordedRequest struct {
	Method    string
	Path      string
	Query     string
	RequestID string
	Auth      string
	Body      string
}

// FakeAPI serves the task REST API from a FakeService.
// Use it with httptest.NewServer.
type FakeAPI struct {
	Service *FakeService

	// Token, when set, is the bearer token every request must carry.
	Token string

	router chi.Router

	mu       sync.Mutex
	failures map[string]Failure
	requests []RecordedRequest
}

// NewFakeAPI creates a FakeAPI backed by svc.
func NewFakeAPI(svc *FakeService) *FakeAPI {
	a := &FakeAPI{
		Service:  svc,
		failures: make(map[string]Failure),
	}

	r := chi.NewRouter()
	a.route(r, http.MethodGet, "/tasks", a.handleList)
	a.route(r, http.MethodPost, "/tasks-create", a.handleCreate)
	a.route(r, http.MethodPut, "/task/update-title/{id}", a.handleUpdateTitle)
	a.route(r, http.MethodPut, "/task/update-description/{id}", a.handleUpdateDescription)
	a.route(r, http.MethodPut, "/task/complete/{id}", a.handleComplete)
	a.route(r, http.MethodDelete, "/task/delete/{id}", a.handleDelete)
	a.route(r, http.MethodDelete, "/task/delete-all", a.handleDeleteAll)
	a.route(r, http.MethodDelete, "/task/delete-completed", a.handleDeleteCompleted)
	a.route(r, http.MethodPut, "/tasks/order", a.handleOrder)
	a.route(r, http.MethodGet, "/validate", a.handleValidate)
	a.router = r

	return a
}

// ServeHTTP implements http.Handler.
func (a *FakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Fail makes the route answer with status and body until cleared with status 0.
// pattern is the route as registered, e.g. "/task/complete/{id}".
func (a *FakeAPI) Fail(method, pattern string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + " " + pattern
	if status == 0 {
		delete(a.failures, key)
		return
	}
	a.failures[key] = Failure{Status: status, Body: body}
}

// Requests returns the requests seen so far.
func (a *FakeAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]RecordedRequest(nil), a.requests...)
}

func (a *FakeAPI) route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := method + " " + pattern
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(strings.NewReader(string(body)))

		a.mu.Lock()
		a.requests = append(a.requests, RecordedRequest{
			Method:    req.Method,
			Path:      req.URL.Path,
			Query:     req.URL.RawQuery,
			RequestID: req.Header.Get("X-Request-ID"),
			Auth:      req.Header.Get("Authorization"),
			Body:      string(body),
		})
		failure, failing := a.failures[key]
		a.mu.Unlock()

		if a.Token != "" && req.Header.Get("Authorization") != "Bearer "+a.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		if failing {
			w.WriteHeader(failure.Status)
			io.WriteString(w, failure.Body)
			return
		}
		h(w, req)
	}))
}

func (a *FakeAPI) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.FetchFilter{
		HideCompleted: q.Get("hideCompleted") == "true",
		ShowTodayOnly: q.Get("showTodayOnly") == "true",
	}
	tasks, err := a.Service.ListTasks(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tasks})
}

func (a *FakeAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	task, err := a.Service.CreateTask(r.Context(), input.Title, input.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": task})
}

func (a *FakeAPI) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title string `json:"title"`
	}
	a.updateTask(w, r, &input, func(id int) (service.Task, error) {
		return a.Service.UpdateTitle(r.Context(), id, input.Title)
	})
}

func (a *FakeAPI) handleUpdateDescription(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Description string `json:"description"`
	}
	a.updateTask(w, r, &input, func(id int) (service.Task, error) {
		return a.Service.UpdateDescription(r.Context(), id, input.Description)
	})
}

func (a *FakeAPI) handleComplete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Completed bool `json:"completed"`
	}
	a.updateTask(w, r, &input, func(id int) (service.Task, error) {
		return a.Service.CompleteTask(r.Context(), id, input.Completed)
	})
}

func (a *FakeAPI) updateTask(w http.ResponseWriter, r *http.Request, input any, apply func(id int) (service.Task, error)) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	task, err := apply(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": task})
}

func (a *FakeAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := a.Service.DeleteTask(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task successfully deleted!"})
}

func (a *FakeAPI) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.DeleteAll(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All tasks successfully deleted!"})
}

func (a *FakeAPI) handleDeleteCompleted(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.DeleteCompleted(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All completed tasks successfully deleted!"})
}

func (a *FakeAPI) handleOrder(w http.ResponseWriter, r *http.Request) {
	var updates []service.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := a.Service.UpdateOrder(r.Context(), updates); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task order updated"})
}

func (a *FakeAPI) handleValidate(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.Validate(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Wrong task id!"})
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var se *service.Error
	if errors.As(err, &se) && se.Status != 0 {
		writeJSON(w, se.Status, map[string]string{"error": se.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
