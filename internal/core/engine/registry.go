package engine

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
)

// Classes the DexScreener API documents independent ceilings for.
const (
	ClassTokenMetadata = "token-metadata"
	ClassDexData       = "dex-data"
)

const maxTokenAddresses = 30

// OperationSpec describes one gateway operation: upstream path template,
// required canonical arguments, accepted alias spellings, and the limiter
// class governing it. Specs are created once at startup and never mutated.
type OperationSpec struct {
	Name         string
	Description  string
	PathTemplate string
	QueryParam   string
	Required     []string
	Aliases      map[string][]string
	Class        string
}

// ResolvedCall is a validated, fully-expanded upstream request.
type ResolvedCall struct {
	Operation  string
	RequestURI string
	Class      string
	Arguments  map[string]string
}

// Registry maps operation names to their specs and resolves raw caller
// arguments into upstream request URIs.
type Registry struct {
	specs map[string]*OperationSpec
	order []string
}

// Catalog is the static operation table. Callers from different ecosystems
// spell the same field inconsistently (token_address vs tokenAddress vs
// contractAddress), so each canonical key registers the spellings seen in the
// wild as aliases rather than failing on naming mismatch alone.
func Catalog() []*OperationSpec {
	return []*OperationSpec{
		{
			Name:         "get_latest_token_profiles",
			Description:  "Latest token profiles",
			PathTemplate: "/token-profiles/latest/v1",
			Class:        ClassTokenMetadata,
		},
		{
			Name:         "get_latest_boosted_tokens",
			Description:  "Latest boosted tokens",
			PathTemplate: "/token-boosts/latest/v1",
			Class:        ClassTokenMetadata,
		},
		{
			Name:         "get_top_boosted_tokens",
			Description:  "Tokens with most active boosts",
			PathTemplate: "/token-boosts/top/v1",
			Class:        ClassTokenMetadata,
		},
		{
			Name:         "get_token_orders",
			Description:  "Paid orders for a token",
			PathTemplate: "/orders/v1/{chainId}/{tokenAddress}",
			Required:     []string{"chainId", "tokenAddress"},
			Aliases: map[string][]string{
				"chainId":      {"chain_id", "chain"},
				"tokenAddress": {"token_address", "contractAddress", "contract_address", "address"},
			},
			Class: ClassTokenMetadata,
		},
		{
			Name:         "get_pair",
			Description:  "Pair by chain and pair address",
			PathTemplate: "/latest/dex/pairs/{chainId}/{pairId}",
			Required:     []string{"chainId", "pairId"},
			Aliases: map[string][]string{
				"chainId": {"chain_id", "chain"},
				"pairId":  {"pair_id", "pairAddress", "pair_address"},
			},
			Class: ClassDexData,
		},
		{
			Name:         "get_token_pairs",
			Description:  "Pairs for up to 30 token addresses",
			PathTemplate: "/latest/dex/tokens/{tokenAddresses}",
			Required:     []string{"tokenAddresses"},
			Aliases: map[string][]string{
				"tokenAddresses": {"token_addresses", "addresses"},
			},
			Class: ClassDexData,
		},
		{
			Name:         "search_pairs",
			Description:  "Search pairs matching a query",
			PathTemplate: "/latest/dex/search",
			QueryParam:   "q",
			Required:     []string{"query"},
			Aliases: map[string][]string{
				"query": {"q"},
			},
			Class: ClassDexData,
		},
	}
}

// NewRegistry builds a registry from the static catalog.
func NewRegistry() *Registry {
	return NewRegistryFromSpecs(Catalog())
}

// NewRegistryFromSpecs builds a registry from explicit specs (used by tests).
func NewRegistryFromSpecs(specs []*OperationSpec) *Registry {
	r := &Registry{specs: make(map[string]*OperationSpec, len(specs))}
	for _, spec := range specs {
		if spec == nil || spec.Name == "" {
			continue
		}
		if _, exists := r.specs[spec.Name]; exists {
			continue
		}
		r.specs[spec.Name] = spec
		r.order = append(r.order, spec.Name)
	}
	return r
}

// Operations returns the specs in catalog order.
func (r *Registry) Operations() []*OperationSpec {
	specs := make([]*OperationSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.specs[name])
	}
	return specs
}

// Lookup returns the spec for an operation name.
func (r *Registry) Lookup(name string) (*OperationSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Resolve validates and normalizes raw caller arguments against the
// operation's spec and expands the upstream request URI. A returned Failure
// is always of the validation class; no quota is consumed here.
func (r *Registry) Resolve(operation string, args map[string]string) (*ResolvedCall, *core.Failure) {
	spec, ok := r.specs[operation]
	if !ok {
		return nil, &core.Failure{
			Kind:    core.FailureUnknownOperation,
			Message: fmt.Sprintf("unknown operation: %s", operation),
		}
	}

	resolved := make(map[string]string, len(spec.Required))
	for _, key := range spec.Required {
		raw, found := lookupArgument(spec, args, key)
		if !found {
			return nil, &core.Failure{
				Kind:    core.FailureMissingArgument,
				Message: fmt.Sprintf("missing required argument: %s", key),
			}
		}

		value := strings.TrimSpace(raw)
		if key == "tokenAddresses" {
			var failure *core.Failure
			value, failure = normalizeAddressList(value)
			if failure != nil {
				return nil, failure
			}
		}
		if value == "" {
			return nil, &core.Failure{
				Kind:    core.FailureInvalidArgument,
				Message: fmt.Sprintf("argument %s must not be empty", key),
			}
		}

		resolved[key] = value
	}

	uri := spec.PathTemplate
	for key, value := range resolved {
		uri = strings.ReplaceAll(uri, "{"+key+"}", url.PathEscape(value))
	}

	if spec.QueryParam != "" && len(spec.Required) > 0 {
		query := url.Values{}
		query.Set(spec.QueryParam, resolved[spec.Required[0]])
		uri += "?" + query.Encode()
	}

	return &ResolvedCall{
		Operation:  spec.Name,
		RequestURI: uri,
		Class:      spec.Class,
		Arguments:  resolved,
	}, nil
}

// lookupArgument searches by canonical name first, then each registered
// alias in order; the first present key wins. Matching is case-sensitive.
func lookupArgument(spec *OperationSpec, args map[string]string, key string) (string, bool) {
	if value, ok := args[key]; ok {
		return value, true
	}
	for _, alias := range spec.Aliases[key] {
		if value, ok := args[alias]; ok {
			return value, true
		}
	}
	return "", false
}

// normalizeAddressList trims each comma-separated address, drops empties,
// and enforces the upstream batch ceiling.
func normalizeAddressList(value string) (string, *core.Failure) {
	parts := strings.Split(value, ",")
	addresses := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}

	if len(addresses) > maxTokenAddresses {
		return "", &core.Failure{
			Kind:    core.FailureInvalidArgument,
			Message: fmt.Sprintf("tokenAddresses accepts at most %d addresses, got %d", maxTokenAddresses, len(addresses)),
		}
	}

	return strings.Join(addresses, ","), nil
}
