// Package apiclient gives generated tool code (spec §4.4's
// suggest_api_call) a pre-configured, datasource-keyed HTTP handle: auth
// headers applied per the source's scheme, exponential backoff retried
// only on 5xx, and a GET cache keyed by source/method/path/params.
//
// Grounded on github.com/kadirpekel/hector's pkg/httpclient.Client
// (retry/backoff shape, RetryableError), reduced to the 5xx-only retry
// policy spec §6.5 requires (the teacher additionally smart-retries 429
// using provider-specific rate-limit headers, which has no equivalent
// for the generic datasources this module targets).
package apiclient

import (
	"sync"

	"github.com/kadirpekel/agentcore/pkg/datasource"
)

var (
	registryMu      sync.RWMutex
	defaultRegistry *datasource.Registry
)

// Configure binds the package-level Datasource Registry that New
// resolves source ids against. cmd/agentcore calls this once at
// startup, mirroring the teacher's logger.Init pattern of installing a
// package-level default (pkg/logger/logger.go's slog.SetDefault).
func Configure(reg *datasource.Registry) {
	registryMu.Lock()
	defer registryMu.Unlock()
	defaultRegistry = reg
}

func lookup(sourceID string) (datasource.Datasource, bool) {
	registryMu.RLock()
	reg := defaultRegistry
	registryMu.RUnlock()
	if reg == nil {
		return datasource.Datasource{}, false
	}
	return reg.Get(sourceID)
}
