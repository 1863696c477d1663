// Package api serves benchmark evaluation over HTTP.
package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/config"
	"github.com/hydroworks/hydrobench/internal/store"
)

type Server struct {
	router *gin.Engine
	bench  *benchmark.Benchmark
	store  *store.Store
	config *config.Config
}

func NewServer(cfg *config.Config, bench *benchmark.Benchmark, st *store.Store) (*Server, error) {
	if bench == nil {
		return nil, errors.New("api: nil benchmark")
	}

	r := gin.New()
	s := &Server{
		router: r,
		bench:  bench,
		store:  st,
		config: cfg,
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
