package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ServiceName = "lockdrop"
	RPCPath     = "/rpc"
	MetricsPath = "/metrics"
)

// NewHandler serves the JSON-RPC service and, if gatherer is set, metrics.
func NewHandler(node *Node, gatherer prometheus.Gatherer) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	if err := server.RegisterService(NewService(node), ServiceName); err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Handle(RPCPath, server).Methods(http.MethodPost)
	if gatherer != nil {
		router.Handle(MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return router, nil
}
