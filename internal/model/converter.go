package model

import "context"

// Converter turns a packet capture into a CSV file with one row per flow.
// It must distinguish outright failure from a run that produced zero flows:
// a missing or unreadable output file is an error, an empty flow table is not.
type Converter interface {
	Convert(ctx context.Context, pcapPath, workDir string) (csvPath string, err error)
}
