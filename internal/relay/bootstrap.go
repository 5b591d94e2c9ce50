package relay

import (
	"github.com/go-playground/validator/v10"
	"github.com/nulzo/shem-api/internal/config"
	"github.com/nulzo/shem-api/internal/llm"
	"go.uber.org/zap"
)

// BootstrapProviders builds adapters for each name in priority, in that order.
// Names without a config entry, invalid entries and unknown types are logged and skipped.
func BootstrapProviders(providers []config.ProviderConfig, priority []string, log *zap.Logger) []llm.Provider {
	validate := validator.New()

	byName := make(map[string]config.ProviderConfig, len(providers))
	for _, p := range providers {
		byName[p.Name] = p
	}

	seen := make(map[string]bool, len(priority))
	var out []llm.Provider

	for _, name := range priority {
		if seen[name] {
			log.Warn("Provider listed twice in priority, ignoring repeat", zap.String("provider", name))
			continue
		}
		seen[name] = true

		pCfg, ok := byName[name]
		if !ok {
			log.Error("Provider in priority has no configuration", zap.String("provider", name))
			continue
		}

		if err := validate.Struct(&pCfg); err != nil {
			log.Error("Invalid provider configuration", zap.String("provider", name), zap.Error(err))
			continue
		}

		factoryFunc, err := llm.Get(pCfg.Type)
		if err != nil {
			log.Error("Unknown provider type", zap.String("provider", name), zap.String("type", pCfg.Type))
			continue
		}

		p, err := factoryFunc(pCfg)
		if err != nil {
			log.Error("Failed to initialize provider", zap.String("provider", name), zap.Error(err))
			continue
		}

		log.Info("Registered provider",
			zap.String("provider", name),
			zap.String("type", pCfg.Type),
			zap.String("model", pCfg.Model),
		)
		out = append(out, p)
	}

	if len(out) == 0 {
		log.Warn("No providers were registered. Every chat request will fail.")
	}

	return out
}
