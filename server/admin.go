/*
 * GW Emulator
 *
 * Copyright 2019-2022 Dapper Labs, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	emulator "github.com/godwoken/gw-emulator"
)

const (
	LivenessPath    = "/live"
	MetricsPath     = "/metrics"
	EmulatorApiPath = "/emulator/"

	// RequestIDHeader carries the id admin responses and error logs are tagged with.
	RequestIDHeader = "X-Request-Id"
)

type HTTPHeader struct {
	Key   string
	Value string
}

type HTTPServer struct {
	logger     *logrus.Logger
	host       string
	port       int
	httpServer *http.Server
	listener   net.Listener
}

func NewAdminServer(
	logger *logrus.Logger,
	blockchain *emulator.Blockchain,
	liveness *LivenessTicker,
	host string,
	port int,
	headers []HTTPHeader,
) *HTTPServer {
	router := mux.NewRouter()

	// register metrics handler
	router.Handle(MetricsPath, promhttp.Handler())

	// register liveness handler
	router.Handle(LivenessPath, liveness.Handler())

	// register API handler
	router.PathPrefix(EmulatorApiPath).Handler(NewEmulatorAPIServer(logger, blockchain))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: wrappedHandler(router, headers),
	}

	return &HTTPServer{
		logger:     logger,
		host:       host,
		port:       port,
		httpServer: httpServer,
	}
}

// Listen binds the server's port without serving.
func (h *HTTPServer) Listen() error {
	lis, err := net.Listen("tcp", h.httpServer.Addr)
	if err != nil {
		return err
	}
	h.listener = lis
	return nil
}

func (h *HTTPServer) Start() error {
	if h.listener == nil {
		if err := h.Listen(); err != nil {
			return err
		}
	}

	h.logger.
		WithField("port", h.port).
		Infof("✅  Started admin server on port %d", h.port)

	err := h.httpServer.Serve(h.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (h *HTTPServer) Stop() {
	_ = h.httpServer.Shutdown(context.Background())
}

func (h *HTTPServer) Server() *http.Server {
	return h.httpServer
}

func wrappedHandler(handler http.Handler, headers []HTTPHeader) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		setResponseHeaders(res, headers)

		requestID := req.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			req.Header.Set(RequestIDHeader, requestID)
		}
		res.Header().Set(RequestIDHeader, requestID)

		if req.Method == http.MethodOptions {
			return
		}

		handler.ServeHTTP(res, req)
	}
}

func setResponseHeaders(w http.ResponseWriter, headers []HTTPHeader) {
	for _, header := range headers {
		w.Header().Set(header.Key, header.Value)
	}
}
