package flowmeter

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"NetSentry/internal/model"
)

// ExecConverter shells out to an external flow meter (cicflowmeter-style
// invocation: `command -f <pcap> -c <csv>`). It implements model.Converter.
type ExecConverter struct {
	command string
}

// NewExecConverter creates a converter around the given command.
func NewExecConverter(command string) *ExecConverter {
	return &ExecConverter{command: command}
}

// Convert runs the external tool. A non-zero exit or a missing output file is
// an error, distinct from a run that produced only the CSV header.
func (c *ExecConverter) Convert(ctx context.Context, pcapPath, workDir string) (string, error) {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	csvPath := filepath.Join(workDir, "flows.csv")

	cmd := exec.CommandContext(ctx, c.command, "-f", pcapPath, "-c", csvPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Printf("Running converter: %s", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("converter exited with error: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(csvPath); err != nil {
		return "", fmt.Errorf("converter produced no output file: %w", err)
	}
	return csvPath, nil
}

var _ model.Converter = (*ExecConverter)(nil)
