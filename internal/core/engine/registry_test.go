package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
)

func TestRegistryOperationsCatalogOrder(t *testing.T) {
	reg := NewRegistry()
	specs := reg.Operations()
	require.Len(t, specs, 7)
	require.Equal(t, "get_latest_token_profiles", specs[0].Name)
	require.Equal(t, "search_pairs", specs[6].Name)

	for _, spec := range specs {
		require.NotEmpty(t, spec.Class)
		require.NotEmpty(t, spec.PathTemplate)
	}
}

func TestResolveNoArgumentOperation(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_latest_token_profiles", nil)
	require.Nil(t, failure)
	require.Equal(t, "/token-profiles/latest/v1", call.RequestURI)
	require.Equal(t, ClassTokenMetadata, call.Class)
	require.Empty(t, call.Arguments)
}

func TestResolveUnknownOperation(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_moon_phase", nil)
	require.Nil(t, call)
	require.Equal(t, core.FailureUnknownOperation, failure.Kind)
	require.Contains(t, failure.Message, "get_moon_phase")
}

func TestResolveAliasSpellings(t *testing.T) {
	reg := NewRegistry()

	// Callers spell the same fields many ways; snake_case and the EVM-style
	// contractAddress name must land on the canonical slots.
	call, failure := reg.Resolve("get_token_orders", map[string]string{
		"chain_id":        "solana",
		"contractAddress": "ABC",
	})
	require.Nil(t, failure)
	require.Equal(t, "/orders/v1/solana/ABC", call.RequestURI)
	require.Equal(t, "solana", call.Arguments["chainId"])
	require.Equal(t, "ABC", call.Arguments["tokenAddress"])
}

func TestResolveCanonicalBeatsAlias(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_pair", map[string]string{
		"chainId":  "base",
		"chain_id": "solana",
		"pairId":   "0xPAIR",
	})
	require.Nil(t, failure)
	require.Equal(t, "/latest/dex/pairs/base/0xPAIR", call.RequestURI)
}

func TestResolveMissingArgument(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_pair", map[string]string{"chainId": "solana"})
	require.Nil(t, call)
	require.Equal(t, core.FailureMissingArgument, failure.Kind)
	require.Contains(t, failure.Message, "pairId")
}

func TestResolveEmptyArgument(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_pair", map[string]string{
		"chainId": "   ",
		"pairId":  "0xPAIR",
	})
	require.Nil(t, call)
	require.Equal(t, core.FailureInvalidArgument, failure.Kind)
	require.Contains(t, failure.Message, "chainId")
}

func TestResolveTokenAddressListTrimsItems(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_token_pairs", map[string]string{
		"addresses": " A1 , B2 ,, C3 ",
	})
	require.Nil(t, failure)
	require.Equal(t, "/latest/dex/tokens/A1,B2,C3", call.RequestURI)
}

func TestResolveTokenAddressListCeiling(t *testing.T) {
	reg := NewRegistry()

	addresses := make([]string, 31)
	for i := range addresses {
		addresses[i] = fmt.Sprintf("addr%d", i)
	}

	call, failure := reg.Resolve("get_token_pairs", map[string]string{
		"tokenAddresses": strings.Join(addresses, ","),
	})
	require.Nil(t, call)
	require.Equal(t, core.FailureInvalidArgument, failure.Kind)
	require.Contains(t, failure.Message, "30")
	require.Contains(t, failure.Message, "31")
}

func TestResolveTokenAddressListAllEmpty(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_token_pairs", map[string]string{
		"tokenAddresses": " , , ",
	})
	require.Nil(t, call)
	require.Equal(t, core.FailureInvalidArgument, failure.Kind)
}

func TestResolveSearchQueryEncoding(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("search_pairs", map[string]string{
		"q": "SOL/USDC pools",
	})
	require.Nil(t, failure)
	require.Equal(t, "/latest/dex/search?q=SOL%2FUSDC+pools", call.RequestURI)
	require.Equal(t, ClassDexData, call.Class)
}

func TestResolvePathEscaping(t *testing.T) {
	reg := NewRegistry()

	call, failure := reg.Resolve("get_token_orders", map[string]string{
		"chainId":      "solana",
		"tokenAddress": "a/b c",
	})
	require.Nil(t, failure)
	require.Equal(t, "/orders/v1/solana/a%2Fb%20c", call.RequestURI)
}

func TestResolveAliasMatchingIsCaseSensitive(t *testing.T) {
	reg := NewRegistry()

	// chainID is not a registered spelling; only exact-case keys match.
	call, failure := reg.Resolve("get_pair", map[string]string{
		"chainID": "solana",
		"pairId":  "0xPAIR",
	})
	require.Nil(t, call)
	require.Equal(t, core.FailureMissingArgument, failure.Kind)
	require.Contains(t, failure.Message, "chainId")
}

func TestLookupKnownAndUnknown(t *testing.T) {
	reg := NewRegistry()

	spec, ok := reg.Lookup("search_pairs")
	require.True(t, ok)
	require.Equal(t, "q", spec.QueryParam)

	_, ok = reg.Lookup("nope")
	require.False(t, ok)
}
