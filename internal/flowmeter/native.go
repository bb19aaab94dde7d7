package flowmeter

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"NetSentry/internal/model"
)

// NativeConverter turns a packet capture into a flow CSV in-process, without
// an external flow meter. It implements model.Converter.
type NativeConverter struct{}

// NewNativeConverter creates the built-in pcap converter.
func NewNativeConverter() *NativeConverter {
	return &NativeConverter{}
}

// Convert reads the capture, aggregates flows, and writes flows.csv into
// workDir. A capture with zero parseable flows still yields a valid (header
// only) CSV; only read or write failures are errors.
func (c *NativeConverter) Convert(ctx context.Context, pcapPath, workDir string) (string, error) {
	handle, err := pcap.OpenOffline(pcapPath)
	if err != nil {
		return "", fmt.Errorf("failed to open capture: %w", err)
	}
	defer handle.Close()

	meter := NewMeter()
	source := gopacket.NewPacketSource(handle, handle.LinkType())
	for packet := range source.Packets() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ts := packet.Metadata().Timestamp
		info, err := ParsePacket(packet.Data(), ts)
		if err != nil {
			// Unsupported packet types and corrupt frames are skipped.
			continue
		}
		meter.Add(info)
	}
	log.Printf("Converted %s: %d flows", filepath.Base(pcapPath), meter.Len())

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	csvPath := filepath.Join(workDir, "flows.csv")
	out, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("failed to create flow CSV: %w", err)
	}
	defer out.Close()

	if err := meter.WriteCSV(out); err != nil {
		return "", err
	}
	return csvPath, nil
}

var _ model.Converter = (*NativeConverter)(nil)
