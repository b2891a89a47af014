package publish

import "sort"

// Strategy is an ingestion mechanism a provider supports.
type Strategy string

const (
	StrategyRemoteURL       Strategy = "remoteUrl"
	StrategyResumableUpload Strategy = "resumableUpload"
)

// strategyTable is the single source of truth for which strategies each
// provider accepts. Adding a provider is one entry here.
var strategyTable = map[string][]Strategy{
	"instagram": {StrategyRemoteURL},
	"facebook":  {StrategyRemoteURL},
	"youtube":   {StrategyResumableUpload},
	"tiktok":    {StrategyResumableUpload},
	"mock":      {StrategyRemoteURL, StrategyResumableUpload},
}

// SupportedStrategies returns the upload strategies a provider accepts.
// Unknown providers support nothing.
func SupportedStrategies(provider string) []Strategy {
	return strategyTable[provider]
}

// Providers returns every known provider identifier, sorted.
func Providers() []string {
	providers := make([]string, 0, len(strategyTable))
	for provider := range strategyTable {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}

func hasStrategy(strategies []Strategy, want Strategy) bool {
	for _, s := range strategies {
		if s == want {
			return true
		}
	}
	return false
}
