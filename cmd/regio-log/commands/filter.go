package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/regio-project/regio-go/pkg/log"
)

// RunFilter copies the events matching filter into a new trace file and
// returns how many were written.
func RunFilter(path, output string, filter log.Filter) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return logger.Count(), fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}
	if err := logger.Close(); err != nil {
		return logger.Count(), fmt.Errorf("failed to write output: %w", err)
	}
	return logger.Count(), logger.Err()
}
