/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package server provides server wide operations and utilities.
package server

import (
	"net/http"

	"github.com/asgardeo/gate/internal/system/cache"
	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

// Cors holds the CORS options applied to a wrapped handler.
type Cors struct {
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials bool
}

// RequestWrapOptions holds the options applied when wrapping a handler function.
type RequestWrapOptions struct {
	Cors *Cors
}

// ServerOperationServiceInterface defines the interface for server operations.
type ServerOperationServiceInterface interface {
	WrapHandleFunction(mux *http.ServeMux, pattern string, opts *RequestWrapOptions, handler http.HandlerFunc)
}

// ServerOperationService is the default implementation of ServerOperationServiceInterface.
type ServerOperationService struct {
	OriginCache cache.CacheInterface[[]string]
}

// NewServerOperationService creates a new instance of ServerOperationService.
func NewServerOperationService() ServerOperationServiceInterface {
	return &ServerOperationService{
		OriginCache: cache.NewCache[[]string]("allowedOriginCache"),
	}
}

// WrapHandleFunction registers the handler function with the multiplexer after
// wrapping it with CORS handling per the provided options.
func (s *ServerOperationService) WrapHandleFunction(mux *http.ServeMux, pattern string,
	opts *RequestWrapOptions, handler http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if opts != nil && opts.Cors != nil {
			s.applyCORSHeaders(w, r, opts.Cors)
		}
		handler(w, r)
	})
}

// applyCORSHeaders sets the CORS headers for the response based on the configured allowed origins.
func (s *ServerOperationService) applyCORSHeaders(w http.ResponseWriter, r *http.Request, opts *Cors) {
	requestOrigin := r.Header.Get("Origin")
	if requestOrigin == "" {
		return
	}

	allowedOrigin := utils.GetAllowedOrigin(s.getAllowedOrigins(), requestOrigin)
	if allowedOrigin == "" {
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
	if opts.AllowedMethods != "" {
		w.Header().Set("Access-Control-Allow-Methods", opts.AllowedMethods)
	}
	if opts.AllowedHeaders != "" {
		w.Header().Set("Access-Control-Allow-Headers", opts.AllowedHeaders)
	}
	if opts.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

// getAllowedOrigins retrieves the allowed origins from the cache or configuration.
func (s *ServerOperationService) getAllowedOrigins() []string {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ServerOperationService"))

	cacheKey := cache.CacheKey{Key: "allowedOrigins"}
	if origins, found := s.OriginCache.Get(cacheKey); found {
		return origins
	}

	origins := config.GetGateRuntime().Config.CORS.AllowedOrigins
	if len(origins) == 0 {
		logger.Debug("No allowed origins configured in deployment.yaml")
		return []string{}
	}

	if err := s.OriginCache.Set(cacheKey, origins); err != nil {
		logger.Error("Failed to cache allowed origins", log.Error(err))
	}
	return origins
}
