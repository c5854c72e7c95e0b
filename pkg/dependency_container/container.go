package dependency_container

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/config"
	handlers "github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/cache"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/httpx"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/llm"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/ner"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
	"github.com/NeuralTrust/PrivacyGuard/pkg/pii_entities"
	"github.com/NeuralTrust/PrivacyGuard/pkg/server/middleware"
	"github.com/sirupsen/logrus"
)

const probeTimeout = 15 * time.Second

type Container struct {
	Anonymizer          *anonymizer.Anonymizer
	Store               store.Store
	Cache               cache.Client
	NERClient           *ner.Client
	HandlerTransport    handlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
}

type ContainerDI struct {
	Cfg           *config.Config
	Logger        *logrus.Logger
	// NERHTTPClient overrides the transport used for inference calls.
	NERHTTPClient httpx.Client
}

func NewContainer(di ContainerDI) (*Container, error) {
	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency:  di.Cfg.Metrics.EnableLatency,
		EnableDetector: di.Cfg.Metrics.EnableDetector,
	})

	mode, err := anonymizer.ParsePlaceholderMode(di.Cfg.Anonymizer.PlaceholderMode)
	if err != nil {
		return nil, err
	}

	registry := anonymizer.NewRegistry()

	// regex
	if di.Cfg.Detection.Regex.Enabled {
		entities, err := regexEntities(di.Cfg.Detection.Regex.Labels)
		if err != nil {
			return nil, err
		}
		for _, m := range anonymizer.NewEntityMatchers(entities) {
			registry.Register(m)
		}
	}

	// ner
	nerClient, err := newNERClient(di)
	if err != nil {
		return nil, err
	}
	if nerClient != nil {
		matcher, err := newModelMatcher(di.Cfg.Detection.NER, nerClient, di.Logger)
		if err != nil {
			return nil, err
		}
		registry.Register(matcher)
	} else {
		di.Logger.Warn("ner model not configured, running in limited mode (regex detection only)")
	}

	// llm
	if di.Cfg.Detection.LLM.Enabled {
		llmCfg := di.Cfg.Detection.LLM
		registry.Register(llm.NewDetector(llm.Config{
			BaseURL:     llmCfg.BaseURL,
			APIKey:      llmCfg.APIKey,
			Model:       llmCfg.Model,
			MaxAttempts: llmCfg.MaxAttempts,
			BaseBackoff: llmCfg.BaseBackoff,
			MaxBackoff:  llmCfg.MaxBackoff,
		}, di.Logger))
	}

	if len(registry.Matchers()) == 0 {
		di.Logger.Warn("no detectors enabled, texts will pass through unchanged")
	}

	anon := anonymizer.New(
		registry,
		di.Logger,
		anonymizer.WithPlaceholderMode(mode),
		anonymizer.WithStrictDeanonymize(di.Cfg.Anonymizer.StrictDeanonymize),
	)

	// store
	var cacheInstance cache.Client
	if strings.EqualFold(strings.TrimSpace(di.Cfg.Store.Driver), store.DriverRedis) {
		cacheInstance, err = cache.NewClient(cache.Config{
			Host:     di.Cfg.Redis.Host,
			Port:     di.Cfg.Redis.Port,
			Password: di.Cfg.Redis.Password,
			DB:       di.Cfg.Redis.DB,
			TLS:      di.Cfg.Redis.TLS,
		}, di.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
	}
	anonymizationStore, err := store.New(store.Config{
		Driver:   di.Cfg.Store.Driver,
		TTL:      di.Cfg.Store.TTL,
		BoltPath: di.Cfg.Store.BoltPath,
	}, cacheInstance, di.Logger)
	if err != nil {
		if cacheInstance != nil {
			_ = cacheInstance.Close()
		}
		return nil, fmt.Errorf("failed to initialize anonymization store: %w", err)
	}

	var modelStatus handlers.ModelStatus
	if nerClient != nil {
		modelStatus = nerClient
	}

	handlerTransport := &handlers.HandlerTransportDTO{
		IndexHandler:               handlers.NewIndexHandler(di.Cfg.Server.StaticDir),
		HealthHandler:              handlers.NewHealthHandler(modelStatus),
		GetVersionHandler:          handlers.NewGetVersionHandler(),
		AnonymizeHandler:           handlers.NewAnonymizeHandler(di.Logger, anon, anonymizationStore),
		DeanonymizeHandler:         handlers.NewDeanonymizeHandler(di.Logger, anon, anonymizationStore),
		GetAnonymizationHandler:    handlers.NewGetAnonymizationHandler(di.Logger, anonymizationStore),
		DeleteAnonymizationHandler: handlers.NewDeleteAnonymizationHandler(di.Logger, anonymizationStore),
		ListEntitiesHandler:        handlers.NewListEntitiesHandler(anon),
	}

	middlewareTransport := middleware.NewTransport(
		middleware.NewPanicRecoverMiddleware(di.Logger),
		middleware.NewRequestIDMiddleware(),
		middleware.NewMetricsMiddleware(di.Logger),
		middleware.NewDecompressMiddleware(di.Logger, di.Cfg.Server.BodyLimit),
	)

	return &Container{
		Anonymizer:          anon,
		Store:               anonymizationStore,
		Cache:               cacheInstance,
		NERClient:           nerClient,
		HandlerTransport:    handlerTransport,
		MiddlewareTransport: middlewareTransport,
	}, nil
}

// Close releases the store and the redis connection.
func (c *Container) Close() error {
	var errs []error
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	return errors.Join(errs...)
}

func regexEntities(labels []string) ([]pii_entities.Entity, error) {
	if len(labels) == 0 {
		return pii_entities.DetectionOrder, nil
	}
	wanted := make(map[pii_entities.Entity]bool, len(labels))
	for _, l := range labels {
		e := pii_entities.Entity(strings.ToUpper(strings.TrimSpace(l)))
		if pii_entities.GetPattern(e) == nil {
			return nil, fmt.Errorf("unknown regex entity %q", l)
		}
		wanted[e] = true
	}
	// Keep DetectionOrder so tie-breaking does not depend on config order.
	entities := make([]pii_entities.Entity, 0, len(wanted))
	for _, e := range pii_entities.DetectionOrder {
		if wanted[e] {
			entities = append(entities, e)
		}
	}
	return entities, nil
}

// newNERClient returns nil when NER is disabled or has no endpoint. An
// unreachable endpoint still yields a client: the service starts in limited
// mode and recovers once the model answers.
func newNERClient(di ContainerDI) (*ner.Client, error) {
	nerCfg := di.Cfg.Detection.NER
	if !nerCfg.Enabled || strings.TrimSpace(nerCfg.Endpoint) == "" {
		return nil, nil
	}

	httpClient := di.NERHTTPClient
	if httpClient == nil {
		httpClient = httpx.NewFastHTTPClient(httpx.WithTimeout(nerCfg.Timeout))
	}
	client, err := ner.NewClient(ner.Config{
		Endpoint: nerCfg.Endpoint,
		APIKey:   nerCfg.APIKey,
		Model:    nerCfg.Model,
	}, di.Logger,
		ner.WithHTTPClient(httpClient),
		ner.WithCircuitBreaker(httpx.NewCircuitBreaker(
			"ner", nerCfg.BreakerTimeout, nerCfg.BreakerMaxFailures,
			httpx.WithStateChangeLogger(di.Logger),
		)),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if err := client.Probe(ctx); err != nil {
		di.Logger.WithFields(logrus.Fields{
			"url":   client.URL(),
			"error": err.Error(),
		}).Warn("ner model unreachable, running in limited mode")
	} else {
		di.Logger.WithFields(logrus.Fields{
			"url":   client.URL(),
			"model": client.Model(),
		}).Info("ner model available")
	}
	return client, nil
}

func newModelMatcher(cfg config.NERConfig, classifier anonymizer.TokenClassifier, logger *logrus.Logger) (anonymizer.Matcher, error) {
	strategy, err := anonymizer.ParseAggregationStrategy(cfg.AggregationStrategy)
	if err != nil {
		return nil, err
	}
	modelLabels := cfg.Labels
	if len(modelLabels) == 0 {
		modelLabels = make([]string, 0, len(pii_entities.ModelEntities))
		for _, e := range pii_entities.ModelEntities {
			modelLabels = append(modelLabels, string(e))
		}
	}
	return anonymizer.NewModelMatcher(classifier, logger,
		anonymizer.WithAggregationStrategy(strategy),
		anonymizer.WithMinScore(cfg.MinScore),
		anonymizer.WithAllowedLabels(cfg.Labels...),
		anonymizer.WithLabelMap(cfg.LabelMap),
		anonymizer.WithModelLabels(modelLabels...),
	), nil
}
