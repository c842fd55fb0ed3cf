package worker

import (
	"github.com/spec-kit/diet-tracker/internal/service"
)

// StartThresholdWorker registers the threshold watcher's event handlers.
func StartThresholdWorker(thresholds *service.ThresholdService) {
	if thresholds == nil {
		return
	}
	thresholds.RegisterHandlers()
}
