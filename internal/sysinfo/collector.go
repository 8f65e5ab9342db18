// Package sysinfo probes the host for device information via smartctl.
// Every failure path here is informational only: callers degrade to
// static defaults rather than surfacing errors.
package sysinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// SystemInfo is the boundary structure handed to API clients and to the
// thermal threshold resolution path.
type SystemInfo struct {
	Success           bool    `json:"success"`
	Device            string  `json:"device,omitempty"`
	ModelName         string  `json:"model_name,omitempty"`
	TemperatureC      float64 `json:"temperature_c,omitempty"`
	TempThreshold     float64 `json:"temp_threshold,omitempty"`
	SmartctlAvailable bool    `json:"smartctl_available"`
}

// Collector shells out to smartctl with a bounded timeout.
type Collector struct {
	smartctlPath string
	timeout      time.Duration
}

// NewCollector builds a collector. path may be empty to use "smartctl"
// from PATH.
func NewCollector(path string, timeout time.Duration) *Collector {
	if path == "" {
		path = "smartctl"
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Collector{smartctlPath: path, timeout: timeout}
}

// SmartctlAvailable reports whether the smartctl binary is on the host.
func (c *Collector) SmartctlAvailable() bool {
	_, err := exec.LookPath(c.smartctlPath)
	return err == nil
}

// smartctl JSON output, reduced to the fields we consume.
type smartctlScan struct {
	Devices []struct {
		Name string `json:"name"`
	} `json:"devices"`
}

type smartctlReport struct {
	ModelName   string `json:"model_name"`
	Temperature struct {
		Current     float64 `json:"current"`
		OpLimitMax  float64 `json:"op_limit_max"`
		CriticalMax float64 `json:"critical_limit_max"`
	} `json:"temperature"`
}

// GetSystemInfo scans for the first SMART-capable device and reads its
// temperature limits. The returned TempThreshold is 0 when the device
// does not report one; callers substitute their own default.
func (c *Collector) GetSystemInfo(ctx context.Context) (SystemInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info := SystemInfo{SmartctlAvailable: c.SmartctlAvailable()}
	if !info.SmartctlAvailable {
		return info, fmt.Errorf("smartctl not found on host")
	}

	scanOut, err := exec.CommandContext(ctx, c.smartctlPath, "--scan", "--json=c").Output()
	if err != nil {
		return info, fmt.Errorf("smartctl scan failed: %w", err)
	}

	var scan smartctlScan
	if err := json.Unmarshal(scanOut, &scan); err != nil {
		return info, fmt.Errorf("decoding smartctl scan output: %w", err)
	}
	if len(scan.Devices) == 0 {
		return info, fmt.Errorf("no SMART-capable devices found")
	}

	device := scan.Devices[0].Name
	reportOut, err := exec.CommandContext(ctx, c.smartctlPath, "-a", "--json=c", device).Output()
	if err != nil {
		return info, fmt.Errorf("smartctl read of %s failed: %w", device, err)
	}

	var report smartctlReport
	if err := json.Unmarshal(reportOut, &report); err != nil {
		return info, fmt.Errorf("decoding smartctl report for %s: %w", device, err)
	}

	info.Success = true
	info.Device = device
	info.ModelName = report.ModelName
	info.TemperatureC = report.Temperature.Current
	info.TempThreshold = report.Temperature.OpLimitMax
	if info.TempThreshold == 0 {
		info.TempThreshold = report.Temperature.CriticalMax
	}
	return info, nil
}

// TempThreshold resolves the device thermal threshold. It satisfies the
// prediction.ThresholdResolver interface.
func (c *Collector) TempThreshold(ctx context.Context) (float64, error) {
	info, err := c.GetSystemInfo(ctx)
	if err != nil {
		return 0, err
	}
	if info.TempThreshold <= 0 {
		return 0, fmt.Errorf("device reports no temperature threshold")
	}
	return info.TempThreshold, nil
}
