//go:build tools

package tools

// Pins the mock generator version. Run: go run github.com/vektra/mockery/v2
// from the module root to regenerate pkg/bus/mocks.
import (
	_ "github.com/vektra/mockery/v2"
)
