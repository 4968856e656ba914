package core

import "sync"

const AVG_COUNT uint8 = 30

// MetricsState accumulates viewer load statistics: lifetime counters per
// terminal state plus a rolling average of load durations.
type MetricsState struct {
	LoadAVGCounter uint8
	MStimes        [AVG_COUNT]float64
	MSavg          float64
	Loaded         int32
	Failed         int32
	Canceled       int32
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil
var metricsMutex sync.Mutex

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			MStimes: [AVG_COUNT]float64{0},
		}
	})
	return nil
}

// MetricsLoadCompleted records one successful load and its duration,
// folding the duration into the rolling average.
func MetricsLoadCompleted(loadMS float64) {
	if metricsState == nil {
		return
	}
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	metricsState.MStimes[metricsState.LoadAVGCounter] = loadMS
	if metricsState.LoadAVGCounter == AVG_COUNT-1 {
		avg := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			avg += metricsState.MStimes[i]
		}
		metricsState.MSavg = avg / float64(AVG_COUNT)
	}
	metricsState.LoadAVGCounter++
	metricsState.LoadAVGCounter %= AVG_COUNT

	metricsState.Loaded++
}

// MetricsLoadFailed records one failed load.
func MetricsLoadFailed() {
	if metricsState == nil {
		return
	}
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsState.Failed++
}

// MetricsLoadCanceled records one canceled load.
func MetricsLoadCanceled() {
	if metricsState == nil {
		return
	}
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsState.Canceled++
}

// MetricsLoads returns the lifetime loaded/failed/canceled counters.
func MetricsLoads() (int32, int32, int32) {
	if metricsState == nil {
		return 0, 0, 0
	}
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return metricsState.Loaded, metricsState.Failed, metricsState.Canceled
}

// MetricsLoadTime returns the rolling average load duration in milliseconds.
func MetricsLoadTime() float64 {
	if metricsState == nil {
		return 0
	}
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return metricsState.MSavg
}
