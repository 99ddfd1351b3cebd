// Package fakeapi is an in-memory stand-in for the course administration API,
// used by tests to exercise the HTTP client, the view controller and the CLI
// end to end. It filters and pages a fixed course list and records every call.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/query"
)

// Course is a fake catalogue entry.
type Course struct {
	ID         int64
	Name       string
	CategoryID int64
	Status     course.Status
}

// Call records one request received by the server.
type Call struct {
	Path        string
	ContentType string
	RequestID   string
	Pagination  *query.Request
	Count       *course.Filter
}

// Server serves /course/pagination and /course/count from memory.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	courses []Course
	calls   []Call
	failing map[string]int
}

// New starts a fake API holding courses.
func New(courses []Course) *Server {
	s := &Server{
		courses: courses,
		failing: map[string]int{},
	}

	r := chi.NewRouter()
	r.Route("/api/course", func(rt chi.Router) {
		rt.Post("/pagination", s.handlePagination)
		rt.Post("/count", s.handleCount)
	})
	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL returns the API root to hand to query.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api/"
}

// Fail makes every later call to the named operation ("pagination" or
// "count") answer with status. A zero status restores normal answers.
func (s *Server) Fail(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failing, op)
		return
	}
	s.failing[op] = status
}

// Calls returns a copy of the recorded calls.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls for one operation.
func (s *Server) CallsTo(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if strings.HasSuffix(c.Path, "/"+op) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handlePagination(w http.ResponseWriter, r *http.Request) {
	var req query.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if status := s.record(r, Call{Pagination: &req}, query.OpPagination); status != 0 {
		http.Error(w, "injected failure", status)
		return
	}

	matched := s.match(req.Where)
	start := (req.PageNumber - 1) * req.PageSize
	end := start + req.PageSize
	if start < 0 || req.PageSize <= 0 {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	data := make([]map[string]any, 0, end-start)
	for _, c := range matched[start:end] {
		data = append(data, map[string]any{
			"id":         c.ID,
			"name":       c.Name,
			"categoryId": c.CategoryID,
			"status":     c.Status,
		})
	}
	writeJSON(w, map[string]any{
		"data":        data,
		"pageNumber":  req.PageNumber,
		"pageSize":    req.PageSize,
		"hasNextPage": end < len(matched),
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	var filter course.Filter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if status := s.record(r, Call{Count: &filter}, query.OpCount); status != 0 {
		http.Error(w, "injected failure", status)
		return
	}
	writeJSON(w, len(s.match(filter)))
}

// record stores the call and returns the injected failure status, if any.
func (s *Server) record(r *http.Request, call Call, op string) int {
	call.Path = r.URL.Path
	call.ContentType = r.Header.Get("Content-Type")
	call.RequestID = r.Header.Get("X-Request-ID")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.failing[op]
}

func (s *Server) match(f course.Filter) []Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Course
	for _, c := range s.courses {
		if f.CategoryID != nil && c.CategoryID != *f.CategoryID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		if f.Query != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*f.Query)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Catalogue builds n courses named "Course N" alternating between two
// categories and the known statuses.
func Catalogue(n int) []Course {
	statuses := course.Statuses()
	out := make([]Course, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Course{
			ID:         int64(i),
			Name:       "Course " + strconv.Itoa(i),
			CategoryID: int64(1 + i%2),
			Status:     statuses[i%len(statuses)],
		})
	}
	return out
}
