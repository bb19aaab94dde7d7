package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"NetSentry/internal/config"
	"NetSentry/internal/model"
)

// SummaryAnalyzer turns an analysis summary into a narrative threat report
// using an OpenAI-compatible chat completion endpoint.
type SummaryAnalyzer struct {
	cfg    *config.AIConfig
	client *openai.Client
}

// NewSummaryAnalyzer creates a new instance of SummaryAnalyzer.
func NewSummaryAnalyzer(cfg *config.AIConfig) (*SummaryAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is not configured")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	return &SummaryAnalyzer{cfg: cfg, client: client}, nil
}

// AnalyzeSummary asks the model for a concise assessment of one analysis run.
// The response is markdown.
func (a *SummaryAnalyzer) AnalyzeSummary(ctx context.Context, summary *model.AnalysisSummary) (string, error) {
	prompt := fmt.Sprintf(
		"You are a senior network security analyst. "+
			"Please review the following traffic analysis summary produced by the NetSentry engine. "+
			"Provide a concise assessment of the overall threat posture, the most significant detections, "+
			"and recommended next steps for investigation. The output should be clear and actionable.\n\n"+
			"--- Analysis Summary ---\n%s\n--- End of Analysis Summary ---", FormatSummary(summary),
	)

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("AI request timeout: %w", err)
		}
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("AI request canceled by client: %w", err)
		}
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// FormatSummary renders the aggregate numbers of a run as plain text, suitable
// for a prompt or a log line.
func FormatSummary(s *model.AnalysisSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s (analysis %s)\n", s.Filename, s.ID)
	fmt.Fprintf(&b, "Total flows: %d, anomalies: %d, average risk score: %.3f\n",
		s.TotalFlows, s.AnomalyCount, s.AvgRiskScore)
	if s.DegradedFeatureMode {
		b.WriteString("NOTE: feature alignment ran in degraded numeric-only mode.\n")
	}

	b.WriteString("Attack distribution:\n")
	for _, label := range sortedKeys(s.AttackDistribution) {
		fmt.Fprintf(&b, "  %s: %d\n", label, s.AttackDistribution[label])
	}

	b.WriteString("Risk distribution:\n")
	for _, level := range []model.RiskLevel{model.RiskCritical, model.RiskHigh, model.RiskMedium, model.RiskLow} {
		if n, ok := s.RiskDistribution[level]; ok {
			fmt.Fprintf(&b, "  %s: %d\n", level, n)
		}
	}

	if len(s.TopRisks) > 0 {
		b.WriteString("Highest-risk flows:\n")
		for _, r := range s.TopRisks {
			fmt.Fprintf(&b, "  %s -> %s [%s] risk=%.3f (%s)\n",
				r.SrcIP, r.DstIP, r.Classification, r.RiskScore, r.RiskLevel)
		}
	}
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
