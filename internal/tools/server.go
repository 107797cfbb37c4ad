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

package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asgardeo/gate/internal/oauth/token"
	"github.com/asgardeo/gate/internal/resource"
	"github.com/asgardeo/gate/internal/settlement"
	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/log"
)

const (
	serverName    = "gate"
	serverVersion = "1.0.0"
)

// claimsContextKey keys the verified token claims in a request context.
type claimsContextKey struct{}

// ClaimsFromContext returns the verified access token claims attached by the
// bearer auth middleware, if any.
func ClaimsFromContext(ctx context.Context) (*token.AccessTokenClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*token.AccessTokenClaims)
	return claims, ok
}

// NewMCPHandler builds the streamable HTTP handler serving the MCP tool surface.
// Every request must carry a bearer access token issued by the token endpoint.
func NewMCPHandler() http.Handler {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	RegisterTools(server, ToolDependencies{
		ResourceService:   resource.NewResourceService(),
		SettlementService: settlement.NewSettlementService(),
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)

	return bearerAuthMiddleware(token.NewVerifier(), handler)
}

// bearerAuthMiddleware verifies the Authorization header and attaches the token
// claims to the request context. Verification failures are reported uniformly so
// callers cannot probe why a token was rejected.
func bearerAuthMiddleware(verifier token.VerifierInterface, next http.Handler) http.Handler {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "MCPAuth"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenValue := bearerToken(r)
		claims, err := verifier.VerifyAccessToken(tokenValue)
		if err != nil {
			logger.Debug("Rejected MCP request with invalid bearer token")
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "invalid_token",
		"error_description": "The access token is missing or invalid",
	})
}
