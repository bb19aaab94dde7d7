package alerter

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"

	"NetSentry/internal/ai"
	"NetSentry/internal/config"
	"NetSentry/internal/model"
)

// aiTimeout bounds the narrative-analysis call so a slow AI backend cannot
// stall alert delivery.
const aiTimeout = 60 * time.Second

// Alerter evaluates finished analysis summaries against configured threshold
// rules and sends a consolidated notification when any rule fires.
type Alerter struct {
	rules    []config.AlerterRule
	notifier model.Notifier
	analyzer *ai.SummaryAnalyzer
}

// NewAlerter creates a new Alerter instance. The analyzer may be nil, in
// which case alerts are sent without the narrative section.
func NewAlerter(cfg *config.AlerterConfig, notifier model.Notifier, analyzer *ai.SummaryAnalyzer) *Alerter {
	return &Alerter{
		rules:    cfg.Rules,
		notifier: notifier,
		analyzer: analyzer,
	}
}

// Evaluate checks every rule against the summary and, if any triggered, sends
// one consolidated notification. It returns the triggered rule names.
func (a *Alerter) Evaluate(summary *model.AnalysisSummary) []string {
	var triggered []string
	var messages []string

	for _, rule := range a.rules {
		value, ok := metricValue(summary, rule.Metric)
		if !ok {
			log.Printf("Alerter rule '%s' references unknown metric '%s', skipping", rule.Name, rule.Metric)
			continue
		}
		if !compare(value, rule.Operator, rule.Threshold) {
			continue
		}
		triggered = append(triggered, rule.Name)
		messages = append(messages, fmt.Sprintf(
			"<h3>%s</h3><p>Metric <b>%s</b> is %.4f, which violates the threshold (%s %.4f).</p>",
			rule.Name, rule.Metric, value, rule.Operator, rule.Threshold))
	}

	if len(triggered) == 0 {
		return nil
	}
	log.Printf("Alerter evaluation completed. %d alert(s) triggered for analysis %s.", len(triggered), summary.ID)

	body := fmt.Sprintf("<h1>NetSentry Alert Summary</h1>"+
		"<p>Analysis <b>%s</b> of file <b>%s</b> triggered the following alerts:</p><hr>",
		summary.ID, summary.Filename) +
		strings.Join(messages, "<hr>")

	aiAnalysis, err := a.narrative(summary)
	if err != nil {
		log.Printf("Failed to get AI analysis: %v", err)
	} else if aiAnalysis != "" {
		// Convert the AI's markdown response to HTML.
		html := markdown.ToHTML([]byte(aiAnalysis), nil, nil)
		body += "<hr><h2>AI-Powered Analysis</h2>" + string(html)
	}

	if a.notifier != nil {
		subject := fmt.Sprintf("NetSentry Alert Summary (%d Triggered)", len(triggered))
		if err := a.notifier.Send(subject, body); err != nil {
			log.Printf("ERROR: Failed to send consolidated alert notification: %v", err)
		} else {
			log.Printf("INFO: Consolidated alert notification sent successfully.")
		}
	}

	return triggered
}

func (a *Alerter) narrative(summary *model.AnalysisSummary) (string, error) {
	if a.analyzer == nil {
		return "", nil
	}
	log.Println("Requesting AI analysis for alert summary...")
	ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
	defer cancel()
	return a.analyzer.AnalyzeSummary(ctx, summary)
}

// metricValue resolves a rule metric name against the summary.
func metricValue(s *model.AnalysisSummary, metric string) (float64, bool) {
	switch metric {
	case "total_flows":
		return float64(s.TotalFlows), true
	case "anomaly_count":
		return float64(s.AnomalyCount), true
	case "anomaly_rate":
		if s.TotalFlows == 0 {
			return 0, true
		}
		return float64(s.AnomalyCount) / float64(s.TotalFlows), true
	case "avg_risk_score":
		return s.AvgRiskScore, true
	case "critical_count":
		return float64(s.RiskDistribution[model.RiskCritical]), true
	case "high_count":
		return float64(s.RiskDistribution[model.RiskHigh]), true
	}
	return 0, false
}

func compare(value float64, operator string, threshold float64) bool {
	switch operator {
	case ">":
		return value > threshold
	case ">=":
		return value >= threshold
	case "<":
		return value < threshold
	case "<=":
		return value <= threshold
	case "=", "==":
		return value == threshold
	}
	log.Printf("Unknown alerter operator '%s'", operator)
	return false
}
