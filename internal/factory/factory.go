package factory

import (
	"fmt"
	"log"

	"NetSentry/internal/ai"
	"NetSentry/internal/alerter"
	"NetSentry/internal/artifacts"
	"NetSentry/internal/config"
	"NetSentry/internal/engine/analyzer"
	"NetSentry/internal/engine/feature"
	"NetSentry/internal/engine/inference"
	"NetSentry/internal/flowmeter"
	"NetSentry/internal/model"
	"NetSentry/internal/notification"
	"NetSentry/internal/sink"
)

// Pipeline bundles the fully wired analysis components an entrypoint needs.
type Pipeline struct {
	Analyzer *analyzer.Analyzer
	Adapter  *inference.Adapter
	Alerter  *alerter.Alerter
	Closers  []func()
}

// Build assembles the whole pipeline from configuration: artifacts, the
// inference adapter, the converter, every enabled sink, and the alerter.
func Build(cfg *config.Config) (*Pipeline, error) {
	set := artifacts.Load(cfg.Engine.ArtifactsDir)
	adapter := inference.NewAdapter(set.Classifier, set.Decoder, set.Detector, set.Scaler)
	aligner := feature.NewAligner(set.FeatureNames)

	converter, err := buildConverter(cfg.Converter)
	if err != nil {
		return nil, err
	}

	sinks, closers, err := buildSinks(cfg.Sinks)
	if err != nil {
		return nil, err
	}

	an := analyzer.New(adapter, aligner, converter, sinks, cfg.Engine.ChunkSize, cfg.Engine.TempDir)

	var al *alerter.Alerter
	if cfg.Alerter.Enabled {
		notifier, err := notification.NewEmailNotifier(cfg.SMTP)
		if err != nil {
			return nil, fmt.Errorf("failed to create email notifier: %w", err)
		}

		var summaryAI *ai.SummaryAnalyzer
		if cfg.AI.Enabled {
			summaryAI, err = ai.NewSummaryAnalyzer(&cfg.AI)
			if err != nil {
				return nil, fmt.Errorf("failed to create AI analyzer: %w", err)
			}
			log.Println("AI narrative analysis enabled for alerts.")
		}
		al = alerter.NewAlerter(&cfg.Alerter, notifier, summaryAI)
		log.Printf("Alerter enabled with %d rule(s).", len(cfg.Alerter.Rules))
	}

	return &Pipeline{Analyzer: an, Adapter: adapter, Alerter: al, Closers: closers}, nil
}

// Close releases every resource the pipeline holds.
func (p *Pipeline) Close() {
	for _, c := range p.Closers {
		c()
	}
}

func buildConverter(cfg config.ConverterConfig) (model.Converter, error) {
	switch cfg.Mode {
	case "native":
		return flowmeter.NewNativeConverter(), nil
	case "exec":
		if cfg.Command == "" {
			return nil, fmt.Errorf("converter mode 'exec' requires a command")
		}
		return flowmeter.NewExecConverter(cfg.Command), nil
	}
	return nil, fmt.Errorf("unknown converter mode: '%s'", cfg.Mode)
}

func buildSinks(cfg config.SinksConfig) ([]model.Sink, []func(), error) {
	var sinks []model.Sink
	var closers []func()

	if cfg.ClickHouse.Enabled {
		ch, err := sink.NewClickHouseSink(cfg.ClickHouse)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create clickhouse sink: %w", err)
		}
		sinks = append(sinks, ch)
	}
	if cfg.Gob.Enabled {
		sinks = append(sinks, sink.NewGobSink(cfg.Gob.RootPath))
	}
	if cfg.NATS.Enabled {
		ns, err := sink.NewNATSSink(cfg.NATS)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create NATS sink: %w", err)
		}
		sinks = append(sinks, ns)
		closers = append(closers, ns.Close)
	}

	log.Printf("Configured %d sink(s).", len(sinks))
	return sinks, closers, nil
}
