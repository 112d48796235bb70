// Package config holds the environment-driven tunables for the tree
// synchronization core, mirroring the env-var convention the rest of the
// stack uses for its own configuration knobs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lsds/p2pcoord/srcs/go/utils"
)

const (
	EnableMonitoringEnvKey     = `KUNGFU_CONFIG_ENABLE_MONITORING`
	EnableStallDetectionEnvKey = `KUNGFU_CONFIG_ENABLE_STALL_DETECTION`
	LogLevelEnvKey             = `KUNGFU_CONFIG_LOG_LEVEL`
	MonitoringPeriodEnvKey     = `KUNGFU_CONFIG_MONITORING_PERIOD`
	MailboxCapacityEnvKey      = `KUNGFU_CONFIG_MAILBOX_CAPACITY`
	DisableBoardLocalEnvKey    = `KUNGFU_CONFIG_DISABLE_BOARD_LOCAL`
)

var ConfigEnvKeys = []string{
	EnableMonitoringEnvKey,
	EnableStallDetectionEnvKey,
	LogLevelEnvKey,
	MonitoringPeriodEnvKey,
	MailboxCapacityEnvKey,
	DisableBoardLocalEnvKey,
}

var (
	// EnableMonitoring turns on the HTTP telemetry endpoint serving
	// per-edge scatter/gather byte counters.
	EnableMonitoring = false

	// EnableStallDetection wraps every blocking mailbox Pop with a
	// stall detector that logs if the wait exceeds a few seconds.
	EnableStallDetection = false

	// LogLevel gates log.Debugf; "DEBUG" also turns on the device-binding
	// sanity checks the original source guarded with #ifdef DEBUG.
	LogLevel = `INFO`

	// MonitoringPeriod is how often the rate counters in telemetry are
	// refreshed.
	MonitoringPeriod = 1 * time.Second

	// MailboxCapacity bounds the blocking mailbox. The spec's Open
	// Question on mailbox sizing is resolved here: the slots are shared by
	// every sender to one mailbox, and the default of one matches the
	// steady-state in-flight count of one message per edge per step.
	MailboxCapacity = 1

	// DisableBoardLocal skips planner Phase 1 (board-local pairing) even
	// on runtimes that report multi-GPU board membership. Runtimes that
	// cannot report it already get no board-local pairs.
	DisableBoardLocal = false
)

func init() {
	if val := os.Getenv(EnableMonitoringEnvKey); len(val) > 0 {
		EnableMonitoring = isTrue(val)
	}
	if val := os.Getenv(EnableStallDetectionEnvKey); len(val) > 0 {
		EnableStallDetection = isTrue(val)
	}
	if val := os.Getenv(LogLevelEnvKey); len(val) > 0 {
		LogLevel = strings.ToUpper(val) // FIXME: check enum value
	}
	if val := os.Getenv(MonitoringPeriodEnvKey); len(val) > 0 {
		MonitoringPeriod = parseDuration(val)
	}
	if val := os.Getenv(MailboxCapacityEnvKey); len(val) > 0 {
		MailboxCapacity = parseInt(val)
	}
	if val := os.Getenv(DisableBoardLocalEnvKey); len(val) > 0 {
		DisableBoardLocal = isTrue(val)
	}
}

// ShowDebugLog reports whether the configured log level permits Debugf
// output.
func ShowDebugLog() bool {
	return LogLevel == `DEBUG`
}

func isTrue(val string) bool {
	return val == "true"
}

func parseDuration(val string) time.Duration {
	d, err := time.ParseDuration(val)
	if err != nil {
		utils.ExitErr(err)
	}
	return d
}

func parseInt(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		utils.ExitErr(err)
	}
	return n
}
