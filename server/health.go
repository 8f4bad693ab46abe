package server

import (
	"math"
	"runtime"
	"time"

	"github.com/cshum/vipscale/vips"
)

var start = time.Now()

const mb float64 = 1.0 * 1024 * 1024

// HealthStats reports process and libvips tracked memory statistics
type HealthStats struct {
	Uptime           int64   `json:"uptime"`
	Goroutines       int     `json:"goroutines"`
	GCCycles         uint32  `json:"gc_cycles"`
	NumberOfCPUs     int     `json:"number_of_cpus"`
	HeapSys          float64 `json:"heap_sys"`
	HeapAllocated    float64 `json:"heap_allocated"`
	OSMemoryObtained float64 `json:"os_memory_obtained"`
	VipsMemory       float64 `json:"vips_memory"`
	VipsMemoryHigh   float64 `json:"vips_memory_high"`
	VipsAllocs       int64   `json:"vips_allocs"`
	VipsFiles        int64   `json:"vips_files"`
}

// GetHealthStats snapshots current health statistics
func GetHealthStats() *HealthStats {
	mem := &runtime.MemStats{}
	runtime.ReadMemStats(mem)

	vipsStats := &vips.MemoryStats{}
	vips.ReadVipsMemStats(vipsStats)

	return &HealthStats{
		Uptime:           time.Now().Unix() - start.Unix(),
		Goroutines:       runtime.NumGoroutine(),
		NumberOfCPUs:     runtime.NumCPU(),
		GCCycles:         mem.NumGC,
		HeapSys:          toMegaBytes(mem.HeapSys),
		HeapAllocated:    toMegaBytes(mem.HeapAlloc),
		OSMemoryObtained: toMegaBytes(mem.Sys),
		VipsMemory:       toMegaBytes(uint64(vipsStats.Mem)),
		VipsMemoryHigh:   toMegaBytes(uint64(vipsStats.MemHigh)),
		VipsAllocs:       vipsStats.Allocs,
		VipsFiles:        vipsStats.Files,
	}
}

func toMegaBytes(bytes uint64) float64 {
	output := math.Pow(10, 2)
	return math.Round(float64(bytes)/mb*output) / output
}
