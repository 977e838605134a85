package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/events"
)

const (
	apiPrefix = "/api"
	wsPath    = "ws"

	// maxBodySize bounds request bodies accepted by the write endpoints
	maxBodySize = 1 << 20
)

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "online")
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	router.Any(apiPrefix+"/*path", s.dispatch)

	return router
}

// dispatch routes /api/<root>/... requests. Roots, collections and apply
// paths are only known at runtime, so one catch-all route serves them all.
func (s *Server) dispatch(c *gin.Context) {
	rawPath := trimSlashes(strings.TrimPrefix(c.Request.URL.EscapedPath(), apiPrefix))
	method := c.Request.Method

	if rawPath == wsPath && method == http.MethodGet {
		s.hub.ServeWS(c.Writer, c.Request)
		return
	}

	segments, err := splitPath(rawPath)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if len(segments) < 2 {
		c.String(http.StatusNotFound, "no such endpoint")
		return
	}

	rootName, rest := segments[0], segments[1:]
	applyPath, ok := s.store.ApplyPath(rootName)
	if !ok {
		c.String(http.StatusNotFound, "unknown root "+strconv.Quote(rootName))
		return
	}

	op := operationFor(method, rest, applyPath)
	if op == "" {
		c.String(http.StatusMethodNotAllowed, method+" not allowed on "+rawPath)
		s.metrics.requests.WithLabelValues(rootName, "unknown", strconv.Itoa(http.StatusMethodNotAllowed)).Inc()
		return
	}

	if fault, ok := s.takeFault(method, rawPath); ok {
		s.logger.Debug("Injected fault", zap.String("path", rawPath), zap.Int("status", fault.StatusCode))
		c.String(fault.StatusCode, fault.Body)
		s.metrics.requests.WithLabelValues(rootName, op, strconv.Itoa(fault.StatusCode)).Inc()
		return
	}

	switch op {
	case "apply":
		s.handleApply(c, rootName)
	case "list":
		s.handleList(c, rootName, rest[0])
	case "create":
		s.handleCreate(c, rootName, rest[0])
	case "get":
		s.handleGet(c, rootName, rest[0], rest[1])
	case "replace":
		s.handleReplace(c, rootName, rest[0], rest[1])
	}
	s.metrics.requests.WithLabelValues(rootName, op, strconv.Itoa(c.Writer.Status())).Inc()
}

// operationFor maps a method and a path below the root to an operation name
func operationFor(method string, rest []string, applyPath string) string {
	if strings.Join(rest, "/") == applyPath {
		if method == http.MethodPut {
			return "apply"
		}
		return ""
	}
	switch {
	case len(rest) == 1 && method == http.MethodGet:
		return "list"
	case len(rest) == 1 && method == http.MethodPost:
		return "create"
	case len(rest) == 2 && method == http.MethodGet:
		return "get"
	case len(rest) == 2 && method == http.MethodPut:
		return "replace"
	default:
		return ""
	}
}

func (s *Server) handleList(c *gin.Context, rootName, collection string) {
	body, err := s.store.List(rootName, collection)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) handleGet(c *gin.Context, rootName, collection, id string) {
	body, err := s.store.Get(rootName, collection, id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) handleCreate(c *gin.Context, rootName, collection string) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	id, err := s.store.Create(rootName, collection, body)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.Data(http.StatusCreated, "application/json", body)
	s.publish(events.Created, rootName, collection, id)
}

func (s *Server) handleReplace(c *gin.Context, rootName, collection, id string) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	if err := s.store.Replace(rootName, collection, id, body); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusOK)
	s.publish(events.Replaced, rootName, collection, id)
}

func (s *Server) handleApply(c *gin.Context, rootName string) {
	if _, err := s.store.Apply(rootName); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusOK)
	s.publish(events.Applied, rootName, "", "")
}

func (s *Server) publish(typ events.Type, rootName, collection, id string) {
	pending, generation, err := s.store.State(rootName)
	if err != nil {
		return
	}
	s.metrics.setState(rootName, pending, generation)
	s.hub.Broadcast(events.New(typ, rootName, collection, id, generation, pending))
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize+1))
	if err != nil {
		c.String(http.StatusBadRequest, "cannot read request body: "+err.Error())
		return nil, false
	}
	if len(body) > maxBodySize {
		c.String(http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}
	return body, true
}

// writeStoreError answers with the status matching err and its text as a
// plain-text body.
func writeStoreError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownRoot), errors.Is(err, ErrUnknownCollection), errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrExists):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrIDMismatch):
		status = http.StatusBadRequest
	}
	c.String(status, err.Error())
}

// splitPath splits an escaped path into unescaped segments, so ids may
// contain escaped slashes.
func splitPath(escaped string) ([]string, error) {
	if escaped == "" {
		return nil, nil
	}
	parts := strings.Split(escaped, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		seg, err := url.PathUnescape(p)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func trimSlashes(p string) string {
	return strings.Trim(p, "/")
}
