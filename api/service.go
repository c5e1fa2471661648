package api

import (
	"fmt"
	"net/http"

	"LotusLedger/internal/config"
	"LotusLedger/internal/serviceiface"
)

const DefaultPort = 8080

type GatewayService struct {
	config  map[string]interface{}
	gateway *Gateway
}

func NewGatewayService(cfg map[string]interface{}, handler http.Handler) serviceiface.Service {
	port := DefaultPort
	if p := config.Int(cfg, "port"); p > 0 {
		port = p
	}
	return &GatewayService{config: cfg, gateway: NewGateway(fmt.Sprintf(":%d", port), handler)}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	return s.gateway.Start()
}

func (s *GatewayService) Stop() error {
	return s.gateway.Stop()
}
