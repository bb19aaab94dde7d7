package flowmeter

import (
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// PacketInfo is the per-packet metadata the flow meter accumulates.
type PacketInfo struct {
	Timestamp time.Time
	SrcIP     net.IP
	DstIP     net.IP
	SrcPort   uint16
	DstPort   uint16
	Protocol  uint8
	Length    int
	SYN       bool
}

// ParsePacket decodes a raw Ethernet frame and extracts the flow meter's
// inputs. Non-IPv4 and non-TCP/UDP packets are rejected.
func ParsePacket(data []byte, ts time.Time) (*PacketInfo, error) {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)

	info := &PacketInfo{
		Timestamp: ts,
		Length:    len(data),
	}

	l := packet.Layer(layers.LayerTypeIPv4)
	if l == nil {
		return nil, fmt.Errorf("not an IPv4 packet")
	}
	ipLayer := l.(*layers.IPv4)
	info.SrcIP = ipLayer.SrcIP
	info.DstIP = ipLayer.DstIP
	info.Protocol = uint8(ipLayer.Protocol)

	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcpLayer := l.(*layers.TCP)
		info.SrcPort = uint16(tcpLayer.SrcPort)
		info.DstPort = uint16(tcpLayer.DstPort)
		info.SYN = tcpLayer.SYN
	} else if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udpLayer := l.(*layers.UDP)
		info.SrcPort = uint16(udpLayer.SrcPort)
		info.DstPort = uint16(udpLayer.DstPort)
	} else {
		return nil, fmt.Errorf("not a TCP or UDP packet")
	}

	return info, nil
}
