package status

import (
	"context"
	"math"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

// DefaultTimeout is the per-host probe timeout.
const DefaultTimeout = 3 * time.Second

// Result is the outcome of a single liveness probe.
type Result struct {
	Online    bool
	RTTMillis float64
	RTTKnown  bool
}

// Prober performs one best-effort reachability check against a host.
//
// Implementations must never return an error: anything that prevents a
// probe from completing is indistinguishable from the host being down and
// is reported as offline.
type Prober interface {
	Probe(ctx context.Context, ip string) Result
}

// rttPattern extracts the round-trip time from ping output.
// Matches "time=12.3 ms" (Unix) and "time=3ms" / "time<1ms" (Windows).
var rttPattern = regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`)

// PingProber probes hosts by invoking the platform ping utility for a
// single echo request.
//
// Shelling out avoids the raw-socket privileges an in-process ICMP sender
// would need; the ping binary is setuid or capability-granted on every
// mainstream platform.
type PingProber struct {
	timeout time.Duration
	logger  Logger

	// runPing executes one echo request and returns the tool's combined
	// output. Swappable for tests.
	runPing func(ctx context.Context, ip string, timeout time.Duration) ([]byte, error)
}

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NewPingProber creates a PingProber with the given per-host timeout.
// A zero timeout means DefaultTimeout.
func NewPingProber(timeout time.Duration) *PingProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PingProber{
		timeout: timeout,
		logger:  noopLogger{},
		runPing: runPlatformPing,
	}
}

// SetLogger sets the logger for the prober.
func (p *PingProber) SetLogger(logger Logger) {
	p.logger = logger
}

// Probe sends one ICMP echo request to ip and classifies the host.
//
// When the reply arrives but the RTT cannot be parsed from the tool's
// output, the wall-clock elapsed time around the call is used instead,
// rounded to one decimal place. All failures degrade to offline.
func (p *PingProber) Probe(ctx context.Context, ip string) Result {
	// Give the subprocess a little headroom past the ping timeout so the
	// tool reports its own timeout instead of being killed mid-flight.
	ctx, cancel := context.WithTimeout(ctx, p.timeout+time.Second)
	defer cancel()

	start := time.Now()
	out, err := p.runPing(ctx, ip, p.timeout)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Debug("probe failed", "ip", ip, "error", err)
		return Result{Online: false}
	}

	rtt, ok := parseRTT(out)
	if !ok {
		rtt = roundMillis(elapsed)
	}

	return Result{Online: true, RTTMillis: rtt, RTTKnown: true}
}

// runPlatformPing invokes the ping utility for exactly one echo request.
func runPlatformPing(ctx context.Context, ip string, timeout time.Duration) ([]byte, error) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		ms := strconv.Itoa(int(timeout.Milliseconds()))
		cmd = exec.CommandContext(ctx, "ping", "-n", "1", "-w", ms, ip)
	case "darwin":
		ms := strconv.Itoa(int(timeout.Milliseconds()))
		cmd = exec.CommandContext(ctx, "ping", "-c", "1", "-W", ms, ip)
	default:
		secs := strconv.Itoa(int(math.Ceil(timeout.Seconds())))
		cmd = exec.CommandContext(ctx, "ping", "-c", "1", "-W", secs, ip)
	}
	return cmd.CombinedOutput()
}

// parseRTT extracts the round-trip time in milliseconds from ping output.
func parseRTT(out []byte) (float64, bool) {
	m := rttPattern.FindSubmatch(out)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, false
	}
	return math.Round(v*10) / 10, true
}

// roundMillis converts a duration to milliseconds rounded to one decimal.
func roundMillis(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/100) / 10
}
