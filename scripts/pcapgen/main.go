package main

import (
	"flag"
	"log"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// pcapgen writes a synthetic capture for exercising the analysis pipeline.
// Alongside random background traffic it can inject a SYN-scan burst so the
// converted flows trigger the threat-inference rules.
func main() {
	outputFile := flag.String("o", "test.pcap", "Output pcap file path")
	packetCount := flag.Int("c", 1000, "Number of background packets to generate")
	scanPorts := flag.Int("scan", 0, "Number of ports to probe in an injected SYN scan")
	flag.Parse()

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		log.Fatalf("Failed to write pcap header: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	log.Printf("Generating %d packets into %s...", *packetCount, *outputFile)

	for i := 0; i < *packetCount; i++ {
		srcIP := net.IP{10, 0, byte(rng.Intn(256)), byte(rng.Intn(254) + 1)}
		dstIP := net.IP{10, 1, byte(rng.Intn(256)), byte(rng.Intn(254) + 1)}
		srcPort := layers.TCPPort(rng.Intn(65535-1024) + 1024)
		dstPort := layers.TCPPort(rng.Intn(65535-1024) + 1024)
		payload := make([]byte, rng.Intn(1400)+50)
		rng.Read(payload)

		writePacket(w, srcIP, dstIP, srcPort, dstPort, false, payload)
	}

	if *scanPorts > 0 {
		scanner := net.IP{10, 9, 9, 9}
		target := net.IP{10, 1, 0, 1}
		log.Printf("Injecting SYN scan of %d ports from %s to %s...", *scanPorts, scanner, target)
		for p := 0; p < *scanPorts; p++ {
			writePacket(w, scanner, target, 40000, layers.TCPPort(p+1), true, nil)
		}
	}

	log.Printf("Done: %s", *outputFile)
}

func writePacket(w *pcapgo.Writer, srcIP, dstIP net.IP, srcPort, dstPort layers.TCPPort, syn bool, payload []byte) {
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xAA},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		SrcIP:    srcIP,
		DstIP:    dstIP,
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
	}
	tcp := &layers.TCP{
		SrcPort: srcPort,
		DstPort: dstPort,
		SYN:     syn,
		Window:  14600,
	}
	tcp.SetNetworkLayerForChecksum(ip)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(payload)); err != nil {
		log.Fatalf("Failed to serialize layers: %v", err)
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(buf.Bytes()),
		Length:        len(buf.Bytes()),
	}
	if err := w.WritePacket(ci, buf.Bytes()); err != nil {
		log.Fatalf("Failed to write packet: %v", err)
	}
}
