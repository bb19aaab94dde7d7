package threat

import "testing"

func TestInferTypePortScan(t *testing.T) {
	cases := []struct {
		name  string
		f     FlowFeatures
		score float64
	}{
		{"syn probe", FlowFeatures{FwdPackets: 2, BwdPackets: 1, SynCount: 1, Duration: 10}, 0.2},
		{"short probe without syn", FlowFeatures{FwdPackets: 2, Duration: 0.5}, 0.2},
	}
	for _, c := range cases {
		if got := InferType(c.f, c.score); got != LabelPortScan {
			t.Errorf("%s: expected %s, got %s", c.name, LabelPortScan, got)
		}
	}
}

func TestInferTypeBruteForce(t *testing.T) {
	f := FlowFeatures{
		Protocol:   "TCP",
		DstPort:    22,
		FwdPackets: 30,
		BwdPackets: 20,
		Duration:   10,
	}
	if got := InferType(f, 0.7); got != LabelBruteForce {
		t.Fatalf("expected %s, got %s", LabelBruteForce, got)
	}

	// Unspecified protocol also matches the credential-port rule.
	f.Protocol = ""
	if got := InferType(f, 0.7); got != LabelBruteForce {
		t.Fatalf("empty protocol: expected %s, got %s", LabelBruteForce, got)
	}

	// UDP never matches.
	f.Protocol = "UDP"
	if got := InferType(f, 0.2); got == LabelBruteForce {
		t.Fatalf("UDP flow must not be classified as %s", LabelBruteForce)
	}
}

func TestInferTypeDDoS(t *testing.T) {
	cases := []struct {
		name string
		f    FlowFeatures
	}{
		{"high packet rate", FlowFeatures{PacketsPerSec: 2000, FwdPackets: 400, BwdPackets: 300, Duration: 1}},
		{"burst of packets", FlowFeatures{FwdPackets: 400, BwdPackets: 200, Duration: 5}},
		{"large volume in short window", FlowFeatures{FwdBytes: 4e6, BwdBytes: 2e6, FwdPackets: 200, BwdPackets: 100, Duration: 30}},
	}
	for _, c := range cases {
		if got := InferType(c.f, 0.3); got != LabelDDoS {
			t.Errorf("%s: expected %s, got %s", c.name, LabelDDoS, got)
		}
	}

	// High anomaly score with elevated rate also resolves to DDoS.
	f := FlowFeatures{PacketsPerSec: 250, FwdPackets: 100, BwdPackets: 50, Duration: 100}
	if got := InferType(f, 0.9); got != LabelDDoS {
		t.Errorf("anomalous rate: expected %s, got %s", LabelDDoS, got)
	}
}

func TestInferTypeWebAttack(t *testing.T) {
	f := FlowFeatures{
		Protocol:   "TCP",
		DstPort:    80,
		FwdPackets: 6,
		BwdPackets: 4,
		FwdBytes:   20000,
		BwdBytes:   10000,
		Duration:   100,
	}
	if got := InferType(f, 0.3); got != LabelWebAttack {
		t.Fatalf("expected %s, got %s", LabelWebAttack, got)
	}
}

func TestInferTypeHeartbleed(t *testing.T) {
	f := FlowFeatures{
		Protocol:   "TCP",
		DstPort:    443,
		FwdPackets: 6,
		BwdPackets: 4,
		FwdBytes:   900,
		BwdBytes:   600, // avg packet length 150
		Duration:   5,
	}
	if got := InferType(f, 0.3); got != LabelHeartbleed {
		t.Fatalf("expected %s, got %s", LabelHeartbleed, got)
	}
}

func TestInferTypeBot(t *testing.T) {
	cases := []struct {
		name  string
		f     FlowFeatures
		score float64
	}{
		{"high rate", FlowFeatures{PacketsPerSec: 300, FwdPackets: 8, BwdPackets: 4, DstPort: 8081, FwdBytes: 400, Duration: 10}, 0.3},
		{"chatty udp", FlowFeatures{Protocol: "UDP", DstPort: 53, FwdPackets: 20, BwdPackets: 10, FwdBytes: 400, Duration: 10}, 0.5},
		{"sustained anomaly", FlowFeatures{DstPort: 8443, FwdPackets: 20, BwdPackets: 10, FwdBytes: 20000, BwdBytes: 20000, Duration: 100}, 0.7},
	}
	for _, c := range cases {
		if got := InferType(c.f, c.score); got != LabelBot {
			t.Errorf("%s: expected %s, got %s", c.name, LabelBot, got)
		}
	}
}

func TestInferTypeInfiltration(t *testing.T) {
	f := FlowFeatures{
		Protocol:      "TCP",
		DstPort:       8080,
		FwdPackets:    4,
		BwdPackets:    2,
		FwdBytes:      800,
		BwdBytes:      400,
		Duration:      10,
		PacketsPerSec: 1,
	}
	if got := InferType(f, 0.2); got != LabelInfiltration {
		t.Fatalf("expected %s, got %s", LabelInfiltration, got)
	}
}

func TestInferTypeScoreFallback(t *testing.T) {
	var empty FlowFeatures
	empty.DstPort = -1

	cases := []struct {
		score float64
		want  string
	}{
		{0.9, LabelDDoS},
		{0.7, LabelBot},
		{0.5, LabelBot},
		{0.1, LabelAnomaly},
	}
	for _, c := range cases {
		if got := InferType(empty, c.score); got != c.want {
			t.Errorf("score %.2f: expected %s, got %s", c.score, c.want, got)
		}
	}

	// Low score plus a handful of packets still suggests a probe.
	probe := FlowFeatures{FwdPackets: 4, Duration: 5, DstPort: -1}
	if got := InferType(probe, 0.2); got != LabelPortScan {
		t.Errorf("small flow fallback: expected %s, got %s", LabelPortScan, got)
	}
}

func TestInferTypeBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		f     FlowFeatures
		score float64
		want  string
	}{
		// Port scan packet-count bound (6) and duration bound (3.0).
		{"probe at six packets", FlowFeatures{FwdPackets: 5, BwdPackets: 1, SynCount: 1, Duration: 10, DstPort: 9999, FwdBytes: 600}, 0.2, LabelPortScan},
		{"seven packets skip the probe rule", FlowFeatures{FwdPackets: 6, BwdPackets: 1, SynCount: 1, Duration: 10, DstPort: 9999, FwdBytes: 600}, 0.2, LabelInfiltration},
		{"probe just under three seconds", FlowFeatures{FwdPackets: 3, BwdPackets: 1, Duration: 2.99, DstPort: 9999, FwdBytes: 600}, 0.2, LabelPortScan},
		{"three seconds without syn is no probe", FlowFeatures{FwdPackets: 3, BwdPackets: 1, Duration: 3.0, DstPort: 9999, FwdBytes: 600}, 0.2, LabelInfiltration},

		// Brute-force packet-count bound (300) and duration window (180s).
		{"brute force at three hundred packets", FlowFeatures{Protocol: "TCP", DstPort: 22, FwdPackets: 200, BwdPackets: 100, Duration: 10}, 0.2, LabelBruteForce},
		{"three hundred one packets exceed brute force", FlowFeatures{Protocol: "TCP", DstPort: 22, FwdPackets: 200, BwdPackets: 101, Duration: 10}, 0.2, LabelAnomaly},
		{"brute force just inside the window", FlowFeatures{Protocol: "TCP", DstPort: 22, FwdPackets: 30, BwdPackets: 20, Duration: 179.99}, 0.2, LabelBruteForce},
		{"window closes at 180 seconds", FlowFeatures{Protocol: "TCP", DstPort: 22, FwdPackets: 30, BwdPackets: 20, Duration: 180}, 0.2, LabelAnomaly},

		// DDoS rate bound (1500 pkts/s). At the bound the bot rate rule wins.
		{"rate just above ddos threshold", FlowFeatures{PacketsPerSec: 1500.01, FwdPackets: 5, BwdPackets: 3, Duration: 1}, 0.2, LabelDDoS},
		{"rate at ddos threshold is bot", FlowFeatures{PacketsPerSec: 1500, FwdPackets: 5, BwdPackets: 3, Duration: 1}, 0.2, LabelBot},

		// DDoS byte-rate bound (1e6 bytes/s).
		{"byte rate just above ddos threshold", FlowFeatures{BytesPerSec: 1000000.01, FwdPackets: 10, Duration: 10}, 0.2, LabelDDoS},
		{"byte rate at ddos threshold", FlowFeatures{BytesPerSec: 1e6, FwdPackets: 10, Duration: 10}, 0.2, LabelAnomaly},

		// DDoS burst bounds (500 packets, 15s).
		{"burst just above five hundred packets", FlowFeatures{FwdPackets: 400, BwdPackets: 101, Duration: 14.99}, 0.3, LabelDDoS},
		{"five hundred packets is no burst", FlowFeatures{FwdPackets: 400, BwdPackets: 100, Duration: 14.99}, 0.3, LabelAnomaly},
		{"burst at fifteen seconds is no ddos", FlowFeatures{FwdPackets: 400, BwdPackets: 101, Duration: 15}, 0.3, LabelAnomaly},

		// DDoS volume bound (5e6 bytes in under 60s).
		{"volume just above five megabytes", FlowFeatures{FwdBytes: 5000000.5, FwdPackets: 300, Duration: 59}, 0.3, LabelDDoS},
		{"five megabytes exactly is no ddos", FlowFeatures{FwdBytes: 5e6, FwdPackets: 300, Duration: 59}, 0.3, LabelAnomaly},

		// Anomalous-rate DDoS score bound (0.85). At the bound the bot rate rule wins.
		{"anomalous rate just above 0.85", FlowFeatures{PacketsPerSec: 250, FwdPackets: 100, BwdPackets: 50, Duration: 100}, 0.851, LabelDDoS},
		{"score 0.85 exactly is bot", FlowFeatures{PacketsPerSec: 250, FwdPackets: 100, BwdPackets: 50, Duration: 100}, 0.85, LabelBot},

		// Web-attack volume bound (20000 bytes).
		{"web volume just above 20000", FlowFeatures{Protocol: "TCP", DstPort: 80, FwdPackets: 6, BwdPackets: 4, FwdBytes: 20001, Duration: 100}, 0.3, LabelWebAttack},
		{"web volume at 20000 is unlabeled", FlowFeatures{Protocol: "TCP", DstPort: 80, FwdPackets: 6, BwdPackets: 4, FwdBytes: 20000, Duration: 100}, 0.3, LabelAnomaly},

		// Heartbleed average-length bounds (50 and 300 bytes per packet).
		{"heartbleed at avg length 50", FlowFeatures{Protocol: "TCP", DstPort: 443, FwdPackets: 6, BwdPackets: 4, FwdBytes: 500, Duration: 5}, 0.3, LabelHeartbleed},
		{"avg length below 50 is no heartbleed", FlowFeatures{Protocol: "TCP", DstPort: 443, FwdPackets: 6, BwdPackets: 4, FwdBytes: 499, Duration: 5}, 0.3, LabelAnomaly},
		{"heartbleed at avg length 300", FlowFeatures{Protocol: "TCP", DstPort: 443, FwdPackets: 6, BwdPackets: 4, FwdBytes: 3000, Duration: 5}, 0.3, LabelHeartbleed},
		{"avg length above 300 is no heartbleed", FlowFeatures{Protocol: "TCP", DstPort: 443, FwdPackets: 6, BwdPackets: 4, FwdBytes: 3010, Duration: 5}, 0.3, LabelAnomaly},

		// Sustained-anomaly bot score bound (0.65).
		{"sustained anomaly just above 0.65", FlowFeatures{DstPort: 9999, FwdPackets: 10, BwdPackets: 5, FwdBytes: 600, Duration: 100}, 0.66, LabelBot},
		{"score 0.65 exactly falls to infiltration", FlowFeatures{DstPort: 9999, FwdPackets: 10, BwdPackets: 5, FwdBytes: 600, Duration: 100}, 0.65, LabelInfiltration},

		// Score-only fallback bounds (0.8, 0.45).
		{"fallback just above 0.8", FlowFeatures{DstPort: -1}, 0.81, LabelDDoS},
		{"fallback at 0.8 exactly is bot", FlowFeatures{DstPort: -1}, 0.8, LabelBot},
		{"fallback just above 0.45", FlowFeatures{DstPort: -1}, 0.46, LabelBot},
		{"fallback at 0.45 exactly is anomaly", FlowFeatures{DstPort: -1}, 0.45, LabelAnomaly},
	}
	for _, c := range cases {
		if got := InferType(c.f, c.score); got != c.want {
			t.Errorf("%s: expected %s, got %s", c.name, c.want, got)
		}
	}
}

func TestNormalizeProtocol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"6", "TCP"},
		{"6.0", "TCP"},
		{"17", "UDP"},
		{"1", "ICMP"},
		{"tcp", "TCP"},
		{" udp ", "UDP"},
		{"", ""},
		{"47", "47"},
	}
	for _, c := range cases {
		if got := NormalizeProtocol(c.in); got != c.want {
			t.Errorf("NormalizeProtocol(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
