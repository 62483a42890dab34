package endpoint

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/demoservice/errors"
	"github.com/kbukum/demoservice/util"
	"github.com/kbukum/demoservice/validation"
	"github.com/kbukum/demoservice/version"
)

// Section statuses reported by GET /health/system.
const (
	SectionHealthy  = "healthy"
	SectionCritical = "critical"
	SectionUnknown  = "unknown"
)

// Usage thresholds above which a section is reported critical.
const (
	MemoryThreshold = 90.0
	DiskThreshold   = 95.0
)

const defaultPrecision = 2

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// MemoryStats is a snapshot of process memory in bytes. Limit is 0 when no
// soft memory limit is configured.
type MemoryStats struct {
	Limit uint64
	Total uint64
	Used  uint64
	Free  uint64
	NumGC uint32
}

// DiskStats describes the filesystem holding a path, in bytes.
type DiskStats struct {
	Total  uint64
	Free   uint64
	Usable uint64
}

// SystemQuery holds the query parameters of GET /health/system.
type SystemQuery struct {
	Unit      string `form:"unit" validate:"omitempty,oneof=human bytes"`
	Precision *int   `form:"precision" validate:"omitempty,gte=0,lte=6"`
}

func (q SystemQuery) precision() int {
	if q.Precision == nil {
		return defaultPrecision
	}
	return *q.Precision
}

// SystemReporter serves GET /health/system. The stat sources are fields so
// that callers can point the disk check elsewhere or substitute readings.
type SystemReporter struct {
	Info     ServiceInfo
	DiskPath string
	Memory   func() MemoryStats
	Disk     func(path string) (DiskStats, error)
	Hostname func() (string, error)
}

// NewSystemReporter returns a reporter reading live process and "/" stats.
func NewSystemReporter(info ServiceInfo) *SystemReporter {
	return &SystemReporter{
		Info:     info,
		DiskPath: "/",
		Memory:   readMemoryStats,
		Disk:     diskUsage,
		Hostname: os.Hostname,
	}
}

// System returns a handler reporting memory, runtime, os, cpu and disk
// details of the running process.
func System(info ServiceInfo) gin.HandlerFunc {
	return NewSystemReporter(info).Handler()
}

// Handler returns the gin handler. When memory or disk usage crosses its
// threshold the handler reports a ServiceUnavailable error instead of the
// report.
func (r *SystemReporter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q SystemQuery
		if err := validation.BindQuery(c, &q); err != nil {
			_ = c.Error(err)
			return
		}

		f := formatter{human: q.Unit != "bytes", precision: q.precision()}
		memory, memStatus, memPct := r.memorySection(f)
		disk, diskStatus, diskPct := r.diskSection(f)

		switch {
		case memStatus == SectionCritical:
			_ = c.Error(apperrors.ServiceUnavailable("System resources exhausted").
				WithDetail(fmt.Sprintf("Memory usage %.2f%% reached %.0f%%", memPct, MemoryThreshold)))
			return
		case diskStatus == SectionCritical:
			_ = c.Error(apperrors.ServiceUnavailable("System resources exhausted").
				WithDetail(fmt.Sprintf("Disk usage %.2f%% reached %.0f%%", diskPct, DiskThreshold)))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    StatusHealthy,
			"timestamp": time.Now().UTC(),
			"service":   r.Info.Name,
			"version":   r.Info.Version,
			"memory":    memory,
			"runtime":   r.runtimeSection(),
			"os":        r.osSection(f),
			"cpu": gin.H{
				"available_processors": runtime.NumCPU(),
				"gomaxprocs":           runtime.GOMAXPROCS(0),
			},
			"disk": disk,
		})
	}
}

func (r *SystemReporter) memorySection(f formatter) (gin.H, string, float64) {
	m := r.Memory()

	// Usage is only judged against an explicit limit; without one the Go
	// runtime grows the heap on demand. The threshold sees the raw ratio so
	// the requested precision cannot change the verdict.
	status, usage := SectionHealthy, util.Ratio(m.Used, m.Total)
	if m.Limit > 0 {
		usage = util.Ratio(m.Used, m.Limit)
		if usage >= MemoryThreshold {
			status = SectionCritical
		}
	}

	section := gin.H{
		"total":         f.bytes(m.Total),
		"used":          f.bytes(m.Used),
		"free":          f.bytes(m.Free),
		"usage_percent": util.Round(usage, f.precision),
		"gc_runs":       m.NumGC,
		"status":        status,
	}
	if m.Limit > 0 {
		section["max"] = f.bytes(m.Limit)
	} else {
		section["max"] = nil
	}
	return section, status, usage
}

func (r *SystemReporter) diskSection(f formatter) (gin.H, string, float64) {
	d, err := r.Disk(r.DiskPath)
	if err != nil {
		return gin.H{
			"path":   r.DiskPath,
			"status": SectionUnknown,
			"error":  err.Error(),
		}, SectionUnknown, 0
	}

	used := d.Total - d.Free
	usage := util.Ratio(used, d.Total)
	status := SectionHealthy
	if usage >= DiskThreshold {
		status = SectionCritical
	}
	return gin.H{
		"path":          r.DiskPath,
		"total":         f.bytes(d.Total),
		"free":          f.bytes(d.Free),
		"usable":        f.bytes(d.Usable),
		"used":          f.bytes(used),
		"usage_percent": util.Round(usage, f.precision),
		"status":        status,
	}, status, usage
}

func (r *SystemReporter) runtimeSection() gin.H {
	v := version.Get()
	return gin.H{
		"go_version": v.GoVersion,
		"git_commit": v.GitCommit,
		"build_time": v.BuildTime,
		"goroutines": runtime.NumGoroutine(),
		"uptime":     util.FormatUptime(time.Since(startTime)),
		"pid":        os.Getpid(),
	}
}

func (r *SystemReporter) osSection(f formatter) gin.H {
	hostname, err := r.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	section := gin.H{
		"name":         runtime.GOOS,
		"architecture": runtime.GOARCH,
		"hostname":     hostname,
		"load_average": "N/A",
	}
	if load, ok := loadAverage(); ok {
		section["load_average"] = util.Round(load, f.precision)
	}
	return section
}

// readMemoryStats maps the Go runtime's view of memory onto total/used/free:
// total is what the runtime obtained from the OS, free is the idle heap not
// yet returned to it.
func readMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	free := m.HeapIdle - m.HeapReleased
	stats := MemoryStats{
		Total: m.Sys,
		Used:  m.Sys - m.HeapReleased - free,
		Free:  free,
		NumGC: m.NumGC,
	}
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		stats.Limit = uint64(limit)
	}
	return stats
}

type formatter struct {
	human     bool
	precision int
}

func (f formatter) bytes(b uint64) any {
	if f.human {
		return util.FormatBytes(b, f.precision)
	}
	return b
}
