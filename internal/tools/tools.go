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

// Package tools registers the MCP tools that expose catalog discovery and
// monetized fetch to agents. It adapts the resource and settlement services to
// the MCP SDK's tool handler interface.
package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asgardeo/gate/internal/resource"
	"github.com/asgardeo/gate/internal/settlement"
)

const defaultDiscoverLimit = 20

// ToolDependencies holds the services the MCP tools operate on.
type ToolDependencies struct {
	ResourceService   resource.ResourceServiceInterface
	SettlementService settlement.SettlementServiceInterface
}

// RegisterTools adds the discover and fetch tools to the given MCP server.
func RegisterTools(server *mcp.Server, deps ToolDependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "discover",
		Description: "Search the resource catalog. Returns matching resources with their " +
			"access modes and price estimates. Restricted resources appear only for agents " +
			"on their allow list.",
	}, discoverHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name: "fetch",
		Description: "Fetch a resource's content through the settlement pipeline. The cost " +
			"is held from the caller's payer wallet, metered against the bytes served, and " +
			"settled with a signed receipt. Denials for missing funds or policy caps include " +
			"a cost quote.",
	}, fetchHandler(deps))
}

// DiscoverInput holds parameters for the discover tool.
type DiscoverInput struct {
	Query string `json:"query,omitempty" jsonschema:"search terms matched against title, description and tags"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, defaults to 20"`
}

// FetchInput holds parameters for the fetch tool.
type FetchInput struct {
	ResourceID string `json:"resource_id" jsonschema:"required,id of the catalog resource to fetch"`
	Mode       string `json:"mode,omitempty" jsonschema:"access mode, raw or summary, defaults to raw"`
}

// DiscoverResult is the structured output of the discover tool.
type DiscoverResult struct {
	Results       []resource.DiscoveryResult `json:"results"`
	RecommendedID string                     `json:"recommended_id,omitempty"`
}

// FetchResult is the structured output of a settled fetch. Content is base64
// encoded so binary payloads survive the JSON envelope.
type FetchResult struct {
	Request     settlement.Request `json:"request"`
	Receipt     settlement.Receipt `json:"receipt"`
	Content     string             `json:"content"`
	ContentType string             `json:"content_type"`
}

// fetchDenial is the error payload of a denied fetch.
type fetchDenial struct {
	Code        string `json:"code"`
	Error       string `json:"error"`
	Description string `json:"description"`
	Quote       *quote `json:"quote,omitempty"`
}

// quote carries the estimated cost of a denied fetch.
type quote struct {
	Cost int64 `json:"cost"`
}

func discoverHandler(deps ToolDependencies) mcp.ToolHandlerFor[DiscoverInput, *DiscoverResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiscoverInput) (
		*mcp.CallToolResult, *DiscoverResult, error) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return nil, nil, fmt.Errorf("no verified agent identity on request")
		}

		limit := input.Limit
		if limit <= 0 {
			limit = defaultDiscoverLimit
		}

		results, svcErr := deps.ResourceService.Discover(input.Query, claims.AgentID, limit)
		if svcErr != nil {
			return errorResult(&fetchDenial{
				Code:        svcErr.Code,
				Error:       svcErr.Error,
				Description: svcErr.ErrorDescription,
			}), nil, nil
		}
		if results == nil {
			results = []resource.DiscoveryResult{}
		}

		result := &DiscoverResult{Results: results}
		if len(results) > 0 {
			result.RecommendedID = results[0].ResourceID
		}
		return textResult(result), result, nil
	}
}

func fetchHandler(deps ToolDependencies) mcp.ToolHandlerFor[FetchInput, *FetchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FetchInput) (
		*mcp.CallToolResult, *FetchResult, error) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return nil, nil, fmt.Errorf("no verified agent identity on request")
		}

		outcome, svcErr := deps.SettlementService.Fetch(ctx, &settlement.FetchInput{
			UserID:     claims.Subject,
			ClientID:   claims.ClientID,
			ResourceID: input.ResourceID,
			Mode:       input.Mode,
		})
		if svcErr != nil {
			denial := &fetchDenial{
				Code:        svcErr.Code,
				Error:       svcErr.Error,
				Description: svcErr.ErrorDescription,
			}
			if svcErr.Error == "insufficient_funds" ||
				svcErr.Code == settlement.ErrorPolicyDenied.Code {
				if res, resErr := deps.ResourceService.GetResource(input.ResourceID); resErr == nil {
					denial.Quote = &quote{Cost: res.EstimatedPrice()}
				}
			}
			return errorResult(denial), nil, nil
		}

		result := &FetchResult{
			Request:     outcome.Request,
			Receipt:     outcome.Receipt,
			Content:     base64.StdEncoding.EncodeToString(outcome.Content),
			ContentType: outcome.ContentType,
		}
		return textResult(result), result, nil
	}
}

// textResult builds a CallToolResult with JSON text content from any value. The
// SDK populates the structured output alongside it.
func textResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error marshaling result: %v", err)}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// errorResult builds a tool error carrying a JSON denial payload. Denials are
// tool-level outcomes the agent should read, not protocol failures.
func errorResult(denial *fetchDenial) *mcp.CallToolResult {
	data, err := json.Marshal(denial)
	if err != nil {
		data = []byte(`{"error":"server_error"}`)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
