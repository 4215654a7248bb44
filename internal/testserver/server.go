// Package testserver runs a fake service instance for tests. Routes answer
// with canned JSON bodies and every request is recorded for inspection.
package testserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// NotFoundBody is returned for any route without a canned response.
const NotFoundBody = `{"error":"Record not found"}`

// Request is a recorded incoming request.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type response struct {
	status int
	body   string
}

// Server is a fake instance backed by a gin engine.
type Server struct {
	*httptest.Server

	engine *gin.Engine

	mu        sync.Mutex
	requests  []Request
	responses map[string]response
}

// New starts a Server and closes it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		engine:    gin.New(),
		responses: make(map[string]response),
	}
	s.engine.Use(s.record)
	s.engine.NoRoute(func(c *gin.Context) {
		c.Data(http.StatusNotFound, "application/json; charset=utf-8", []byte(NotFoundBody))
	})

	s.Server = httptest.NewServer(s.engine)
	t.Cleanup(s.Close)
	return s
}

// Handle makes method+path answer with status and body. Calling it again for
// the same route replaces the response.
func (s *Server) Handle(method, path string, status int, body string) {
	key := method + " " + path

	s.mu.Lock()
	_, registered := s.responses[key]
	s.responses[key] = response{status: status, body: body}
	s.mu.Unlock()

	if registered {
		return
	}
	s.engine.Handle(method, path, func(c *gin.Context) {
		s.mu.Lock()
		r := s.responses[key]
		s.mu.Unlock()
		c.Data(r.status, "application/json; charset=utf-8", []byte(r.body))
	})
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request. It fails t if there is none.
func (s *Server) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header.Clone(),
		Body:     body,
	})
	s.mu.Unlock()

	c.Next()
}
