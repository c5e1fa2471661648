package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"LotusLedger/internal/logger"
)

const DefaultShutdownTimeout = 10 * time.Second

// Gateway serves the ledger API on one listener.
type Gateway struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewGateway(addr string, handler http.Handler) *Gateway {
	return &Gateway{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// Start binds the listener and serves in the background.
func (g *Gateway) Start() error {
	ln, err := net.Listen("tcp", g.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", g.server.Addr, err)
	}
	log.Println("API Gateway started on", ln.Addr())
	go func() {
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			LogError("Gateway server failed: %v", err)
		}
	}()
	return nil
}

// Stop drains in-flight requests and closes the listener.
func (g *Gateway) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), g.shutdownTimeout)
	defer cancel()
	if logr := logger.GlobalLogger; logr != nil {
		logr.LogAudit("[Gateway] shutting down")
	}
	return g.server.Shutdown(ctx)
}
