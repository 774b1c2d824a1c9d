package timex

import "time"

// NowMs returns Unix milliseconds. Telemetry payloads carry this.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz converts a frequency into a period in nanoseconds, the unit
// machine.PWMConfig expects. A zero frequency is treated as 1 Hz.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return 1_000_000_000 / uint64(freqHz)
}

// Ms converts a millisecond count from config into a duration.
func Ms(ms uint32) time.Duration { return time.Duration(ms) * time.Millisecond }
