// Package plugins links every built-in backend into the binary. Backends
// register themselves with the core registries from their init functions.
package plugins

import (
	coremetrics "github.com/kilianp07/failpredict/core/metrics"
	"github.com/kilianp07/failpredict/core/notify"
	"github.com/kilianp07/failpredict/core/prediction"

	_ "github.com/kilianp07/failpredict/infra/metrics"
	_ "github.com/kilianp07/failpredict/infra/modelstore"
	_ "github.com/kilianp07/failpredict/infra/mqtt"
	_ "github.com/kilianp07/failpredict/infra/redis"
)

// Kinds of pluggable modules.
const (
	KindModel    = "model"
	KindMetrics  = "metrics"
	KindNotifier = "notify"
)

// Registered returns the available module type names per kind.
func Registered() map[string][]string {
	return map[string][]string{
		KindModel:    prediction.ModelNames(),
		KindMetrics:  coremetrics.SinkNames(),
		KindNotifier: notify.NotifierNames(),
	}
}
