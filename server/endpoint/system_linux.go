//go:build linux

package endpoint

import "golang.org/x/sys/unix"

// siLoadShift is the fixed-point shift of sysinfo load averages.
const siLoadShift = 16

// loadAverage returns the one-minute system load average.
func loadAverage() (float64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return float64(info.Loads[0]) / float64(1<<siLoadShift), true
}
