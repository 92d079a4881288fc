// Package server exposes PFS inspection and extraction over HTTP.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/pfsextract/internal/logger"
	"github.com/samcharles93/pfsextract/internal/sink"
	"github.com/samcharles93/pfsextract/pkg/pfs"
)

// DefaultMaxImageSize bounds request bodies. Dell PFS updates are typically
// tens of megabytes.
const DefaultMaxImageSize int64 = 256 << 20

type Server struct {
	log          logger.Logger
	maxImageSize int64
}

type Option func(*Server)

// WithMaxImageSize overrides DefaultMaxImageSize.
func WithMaxImageSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxImageSize = n
		}
	}
}

func New(log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{log: log, maxImageSize: DefaultMaxImageSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/inspect", s.handleInspect)
	e.POST("/v1/extract", s.handleExtract)
}

// InspectResponse is the body of POST /v1/inspect.
type InspectResponse struct {
	Tree     *pfs.Tree     `json:"tree"`
	Warnings []pfs.Warning `json:"warnings"`
}

// ExtractResponse is the body of POST /v1/extract.
type ExtractResponse struct {
	Manifest  []sink.Entry    `json:"manifest"`
	Artifacts []sink.Artifact `json:"artifacts"`
	Warnings  []pfs.Warning   `json:"warnings"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInspect(c *echo.Context) error {
	buf, err := s.readImage(c)
	if err != nil {
		return writeRequestError(c, err)
	}
	log := s.log.With("request", "inspect", "size", len(buf))
	tree, err := pfs.Decode(buf, false, log)
	if err != nil {
		return writeParseError(c, err)
	}
	return writeJSON(c, http.StatusOK, InspectResponse{
		Tree:     tree,
		Warnings: nonNil(tree.Warnings()),
	})
}

func (s *Server) handleExtract(c *echo.Context) error {
	buf, err := s.readImage(c)
	if err != nil {
		return writeRequestError(c, err)
	}
	log := s.log.With("request", "extract", "size", len(buf))

	mem := sink.NewMemory()
	manifest := sink.NewManifest(mem)
	res, err := pfs.NewExtractor(manifest, log).Extract(buf)
	if err != nil {
		if errors.Is(err, pfs.ErrSink) {
			return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
		}
		return writeParseError(c, err)
	}
	return writeJSON(c, http.StatusOK, ExtractResponse{
		Manifest:  nonNil(manifest.Entries()),
		Artifacts: nonNil(mem.Artifacts()),
		Warnings:  nonNil(res.Warnings),
	})
}

func (s *Server) readImage(c *echo.Context) ([]byte, error) {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, s.maxImageSize)
	buf, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, newInvalidRequest(fmt.Sprintf("image exceeds %d bytes", tooLarge.Limit))
		}
		return nil, err
	}
	if len(buf) == 0 {
		return nil, newInvalidRequest("request body must contain a PFS image")
	}
	return buf, nil
}

func writeRequestError(c *echo.Context, err error) error {
	if errors.Is(err, ErrInvalidRequest) {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error())
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
}

func writeParseError(c *echo.Context, err error) error {
	return writeError(c, http.StatusUnprocessableEntity, "invalid_image_error", err.Error())
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, map[string]ErrorBody{
		"error": {Message: msg, Type: errType},
	})
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.JSONBlob(status, b)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
