package handlers

import (
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

// Global gateway instance, injected by the server package at construction time.
var gateway *engine.Gateway

// SetGateway injects the gateway used by the invoke and operations handlers.
func SetGateway(gw *engine.Gateway) {
	gateway = gw
}

// GetGateway returns the injected gateway (useful for tests).
func GetGateway() *engine.Gateway {
	return gateway
}
