// Package bootstrap wires the process-lifetime singleton: config, storage
// backend, model client, chat service and HTTP handler are constructed
// exactly once and reused for every request thereafter, whether the process
// is a long-running server or a per-request runtime keeping a warm instance.
package bootstrap

import (
	"context"
	"net/http"
	"sync"

	httpadapter "github.com/PabloGalante/verba/internal/adapters/http"
	"github.com/PabloGalante/verba/internal/adapters/llm"
	"github.com/PabloGalante/verba/internal/adapters/storage/dynamo"
	"github.com/PabloGalante/verba/internal/adapters/storage/keyed"
	memstore "github.com/PabloGalante/verba/internal/adapters/storage/memory"
	"github.com/PabloGalante/verba/internal/app/chat"
	"github.com/PabloGalante/verba/internal/config"
	"github.com/PabloGalante/verba/internal/domain"
	"github.com/PabloGalante/verba/internal/observability"
)

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

// Handler returns the fully wired HTTP handler, constructing it on first
// call. Construct-once, reuse-thereafter; never mutated after init.
func Handler(ctx context.Context) (http.Handler, error) {
	once.Do(func() {
		handler, initErr = build(ctx)
	})
	return handler, initErr
}

func build(ctx context.Context) (http.Handler, error) {
	cfg := config.Load()
	log := observability.Logger()

	llmClient, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}

	var backend keyed.Backend
	switch cfg.StorageBackend {
	case "dynamo":
		log.Info("using DynamoDB storage",
			"table", cfg.DynamoTableName, "region", cfg.AWSRegion)
		store, err := dynamo.NewStore(ctx, cfg.DynamoTableName, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		backend = store
	default:
		log.Info("using in-memory storage")
		backend = memstore.NewStore()
	}

	svc := chat.NewService(
		llmClient,
		keyed.NewConversationStore(backend),
		keyed.NewMessageStore(backend),
	)

	return httpadapter.NewServer(svc, cfg.APIKey), nil
}

func newLLMClient(cfg *config.Config) (domain.LLMClient, error) {
	log := observability.Logger()

	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		return llm.NewMockLLM(), nil
	}

	log.Info("using Anthropic LLM client", "model", cfg.ModelName)
	return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.ModelName, cfg.MaxTokens)
}
