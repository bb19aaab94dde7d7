package flowmeter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// csvHeader matches the CICFlowMeter dialect the analysis engine prefers.
var csvHeader = []string{
	"Source IP", "Destination IP", "Source Port", "Destination Port",
	"Protocol", "Timestamp", "Flow Duration",
	"Total Fwd Packets", "Total Backward Packets",
	"Total Length of Fwd Packets", "Total Length of Bwd Packets",
	"Flow Bytes/s", "Flow Packets/s", "SYN Flag Count",
}

// flowStat accumulates one bidirectional flow. Direction is relative to the
// first packet seen: its sender is the forward side.
type flowStat struct {
	srcIP, dstIP     string
	srcPort, dstPort uint16
	protocol         uint8
	firstSeen        float64 // unix seconds
	lastSeen         float64
	fwdPackets       uint64
	bwdPackets       uint64
	fwdBytes         uint64
	bwdBytes         uint64
	synCount         uint64
	order            int
}

// Meter aggregates packets into bidirectional 5-tuple flows, entirely in
// memory. One Meter serves one capture file.
type Meter struct {
	flows map[string]*flowStat
}

// NewMeter creates an empty flow meter.
func NewMeter() *Meter {
	return &Meter{flows: make(map[string]*flowStat)}
}

// Add folds one packet into its flow, creating the flow on first sight.
func (m *Meter) Add(p *PacketInfo) {
	fwdKey := tupleKey(p.SrcIP.String(), p.DstIP.String(), p.SrcPort, p.DstPort, p.Protocol)
	bwdKey := tupleKey(p.DstIP.String(), p.SrcIP.String(), p.DstPort, p.SrcPort, p.Protocol)
	ts := float64(p.Timestamp.UnixNano()) / 1e9

	if f, ok := m.flows[fwdKey]; ok {
		f.forward(p, ts)
		return
	}
	if f, ok := m.flows[bwdKey]; ok {
		f.backward(p, ts)
		return
	}

	f := &flowStat{
		srcIP:     p.SrcIP.String(),
		dstIP:     p.DstIP.String(),
		srcPort:   p.SrcPort,
		dstPort:   p.DstPort,
		protocol:  p.Protocol,
		firstSeen: ts,
		lastSeen:  ts,
		order:     len(m.flows),
	}
	f.forward(p, ts)
	m.flows[fwdKey] = f
}

func (f *flowStat) forward(p *PacketInfo, ts float64) {
	f.touch(ts)
	f.fwdPackets++
	f.fwdBytes += uint64(p.Length)
	if p.SYN {
		f.synCount++
	}
}

func (f *flowStat) backward(p *PacketInfo, ts float64) {
	f.touch(ts)
	f.bwdPackets++
	f.bwdBytes += uint64(p.Length)
	if p.SYN {
		f.synCount++
	}
}

func (f *flowStat) touch(ts float64) {
	if ts < f.firstSeen {
		f.firstSeen = ts
	}
	if ts > f.lastSeen {
		f.lastSeen = ts
	}
}

// Len returns the number of flows accumulated so far.
func (m *Meter) Len() int {
	return len(m.flows)
}

// WriteCSV emits one row per flow in first-seen order.
func (m *Meter) WriteCSV(w io.Writer) error {
	flows := make([]*flowStat, 0, len(m.flows))
	for _, f := range m.flows {
		flows = append(flows, f)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].order < flows[j].order })

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, f := range flows {
		duration := f.lastSeen - f.firstSeen
		totalPackets := f.fwdPackets + f.bwdPackets
		totalBytes := f.fwdBytes + f.bwdBytes

		bytesPerSec, pktsPerSec := 0.0, 0.0
		if duration > 0 {
			bytesPerSec = float64(totalBytes) / duration
			pktsPerSec = float64(totalPackets) / duration
		}

		row := []string{
			f.srcIP, f.dstIP,
			strconv.Itoa(int(f.srcPort)), strconv.Itoa(int(f.dstPort)),
			strconv.Itoa(int(f.protocol)),
			strconv.FormatFloat(f.firstSeen, 'f', 6, 64),
			strconv.FormatFloat(duration, 'f', 6, 64),
			strconv.FormatUint(f.fwdPackets, 10), strconv.FormatUint(f.bwdPackets, 10),
			strconv.FormatUint(f.fwdBytes, 10), strconv.FormatUint(f.bwdBytes, 10),
			strconv.FormatFloat(bytesPerSec, 'f', 3, 64),
			strconv.FormatFloat(pktsPerSec, 'f', 3, 64),
			strconv.FormatUint(f.synCount, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func tupleKey(srcIP, dstIP string, srcPort, dstPort uint16, proto uint8) string {
	return fmt.Sprintf("%s:%d-%s:%d-%d", srcIP, srcPort, dstIP, dstPort, proto)
}
