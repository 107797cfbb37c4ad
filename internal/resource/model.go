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

// Package resource provides the monetized content catalog. Each catalog entry names
// its provider, allowed access modes, pricing, visibility, and payout address; the
// raw content itself lives in the content store.
package resource

// Resource visibility values. Restricted entries are only served to agents on the
// entry's allow-list.
const (
	VisibilityPublic     = "PUBLIC"
	VisibilityRestricted = "RESTRICTED"
)

// Access modes a catalog entry can offer.
const (
	ModeRaw     = "raw"
	ModeSummary = "summary"
)

// Resource represents a monetized catalog entry. Prices are cents: Price is a flat
// price per fetch; when it is zero, UnitPricePerKB prices by delivered bytes with
// EstimatedSize driving the pre-fetch quote.
type Resource struct {
	ResourceID     string   `json:"resource_id"`
	ProviderUserID string   `json:"provider_user_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Modes          []string `json:"modes"`
	Summary        string   `json:"summary,omitempty"`
	Price          int64    `json:"price,omitempty"`
	UnitPricePerKB int64    `json:"unit_price_per_kb,omitempty"`
	EstimatedSize  int64    `json:"estimated_size,omitempty"`
	Visibility     string   `json:"visibility"`
	AllowedAgents  []string `json:"allowed_agents,omitempty"`
	PayoutAddress  string   `json:"payout_address,omitempty"`
	CreatedAt      int64    `json:"created_at"`
}

// AllowsMode reports whether the entry offers the given access mode.
func (r *Resource) AllowsMode(mode string) bool {
	for _, allowed := range r.Modes {
		if allowed == mode {
			return true
		}
	}
	return false
}

// AllowsAgent reports whether the given agent may see the entry.
func (r *Resource) AllowsAgent(agentID string) bool {
	if r.Visibility != VisibilityRestricted {
		return true
	}
	for _, allowed := range r.AllowedAgents {
		if allowed == agentID {
			return true
		}
	}
	return false
}

// PriceFor returns the cost in cents of delivering the given number of bytes: the
// flat price when one is set, otherwise the per-KB rate rounded up to a whole cent.
func (r *Resource) PriceFor(bytes int64) int64 {
	if r.Price > 0 {
		return r.Price
	}
	if r.UnitPricePerKB > 0 && bytes > 0 {
		return (r.UnitPricePerKB*bytes + 1023) / 1024
	}
	return 0
}

// EstimatedPrice returns the pre-fetch quote based on the entry's estimated size.
func (r *Resource) EstimatedPrice() int64 {
	return r.PriceFor(r.EstimatedSize)
}

// PricingBasis names how the entry is priced, for receipts and quotes.
func (r *Resource) PricingBasis() string {
	if r.Price > 0 {
		return "flat"
	}
	if r.UnitPricePerKB > 0 {
		return "per_kb"
	}
	return "free"
}

// CreateResourceRequest represents a catalog entry creation request.
type CreateResourceRequest struct {
	ProviderUserID string   `json:"provider_user_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Modes          []string `json:"modes"`
	Summary        string   `json:"summary,omitempty"`
	Price          int64    `json:"price,omitempty"`
	UnitPricePerKB int64    `json:"unit_price_per_kb,omitempty"`
	EstimatedSize  int64    `json:"estimated_size,omitempty"`
	Visibility     string   `json:"visibility,omitempty"`
	AllowedAgents  []string `json:"allowed_agents,omitempty"`
	PayoutAddress  string   `json:"payout_address,omitempty"`
}

// DiscoveryResult is a ranked catalog match with its price estimate.
type DiscoveryResult struct {
	ResourceID    string   `json:"resource_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Modes         []string `json:"modes"`
	PriceEstimate int64    `json:"price_estimate"`
	Relevance     int      `json:"relevance"`
}
