package alerter

import (
	"strings"
	"testing"

	"NetSentry/internal/config"
	"NetSentry/internal/model"
)

type recordingNotifier struct {
	subjects []string
	bodies   []string
}

func (n *recordingNotifier) Send(subject, body string) error {
	n.subjects = append(n.subjects, subject)
	n.bodies = append(n.bodies, body)
	return nil
}

func testSummary() *model.AnalysisSummary {
	return &model.AnalysisSummary{
		ID:           "abc12345",
		Filename:     "capture.pcap",
		TotalFlows:   1000,
		AnomalyCount: 150,
		AvgRiskScore: 0.42,
		RiskDistribution: map[model.RiskLevel]int{
			model.RiskCritical: 3,
			model.RiskLow:      997,
		},
	}
}

func TestEvaluateTriggersRules(t *testing.T) {
	notifier := &recordingNotifier{}
	a := NewAlerter(&config.AlerterConfig{
		Enabled: true,
		Rules: []config.AlerterRule{
			{Name: "Anomaly volume", Metric: "anomaly_count", Operator: ">", Threshold: 100},
			{Name: "Anomaly rate", Metric: "anomaly_rate", Operator: ">=", Threshold: 0.15},
			{Name: "Risk too high", Metric: "avg_risk_score", Operator: ">", Threshold: 0.9},
			{Name: "Critical present", Metric: "critical_count", Operator: ">=", Threshold: 1},
		},
	}, notifier, nil)

	triggered := a.Evaluate(testSummary())
	if len(triggered) != 3 {
		t.Fatalf("expected 3 triggered rules, got %v", triggered)
	}
	for _, name := range []string{"Anomaly volume", "Anomaly rate", "Critical present"} {
		found := false
		for _, got := range triggered {
			if got == name {
				found = true
			}
		}
		if !found {
			t.Errorf("rule %q did not trigger", name)
		}
	}

	if len(notifier.subjects) != 1 {
		t.Fatalf("expected one consolidated notification, got %d", len(notifier.subjects))
	}
	if !strings.Contains(notifier.subjects[0], "(3 Triggered)") {
		t.Errorf("unexpected subject: %s", notifier.subjects[0])
	}
	body := notifier.bodies[0]
	if !strings.Contains(body, "abc12345") || !strings.Contains(body, "capture.pcap") {
		t.Errorf("body must identify the analysis: %s", body)
	}
	if !strings.Contains(body, "Anomaly volume") {
		t.Errorf("body must name the triggered rule: %s", body)
	}
}

func TestEvaluateNoTriggerSendsNothing(t *testing.T) {
	notifier := &recordingNotifier{}
	a := NewAlerter(&config.AlerterConfig{
		Rules: []config.AlerterRule{
			{Name: "Risk too high", Metric: "avg_risk_score", Operator: ">", Threshold: 0.9},
		},
	}, notifier, nil)

	if triggered := a.Evaluate(testSummary()); triggered != nil {
		t.Fatalf("expected no triggered rules, got %v", triggered)
	}
	if len(notifier.subjects) != 0 {
		t.Error("no notification must be sent when nothing triggers")
	}
}

func TestEvaluateUnknownMetricIsSkipped(t *testing.T) {
	notifier := &recordingNotifier{}
	a := NewAlerter(&config.AlerterConfig{
		Rules: []config.AlerterRule{
			{Name: "Bogus", Metric: "does_not_exist", Operator: ">", Threshold: 0},
		},
	}, notifier, nil)

	if triggered := a.Evaluate(testSummary()); triggered != nil {
		t.Fatalf("unknown metrics must not trigger, got %v", triggered)
	}
}

func TestAnomalyRateWithZeroFlows(t *testing.T) {
	a := NewAlerter(&config.AlerterConfig{
		Rules: []config.AlerterRule{
			{Name: "Rate", Metric: "anomaly_rate", Operator: ">", Threshold: 0},
		},
	}, &recordingNotifier{}, nil)

	if triggered := a.Evaluate(&model.AnalysisSummary{}); triggered != nil {
		t.Fatalf("zero flows must yield a zero rate, got %v", triggered)
	}
}
