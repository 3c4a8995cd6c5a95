// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import (
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"code.hybscloud.com/afu/alog"
)

// Flags are the process-wide configuration toggles. They are resolved on
// first use from defaults, then the optional YAML file named by
// AFU_CONFIG, then environment variables, and are cached for the process
// lifetime, never re-read.
type Flags struct {
	// Portable forces the portable mechanism: the capability flag is
	// false without probing. Env: AFU_PORTABLE.
	Portable bool `yaml:"portable"`

	// ExcludePlatform treats the current platform as excluded, as if it
	// were a constrained runtime class. Env: AFU_EXCLUDE_PLATFORM.
	ExcludePlatform bool `yaml:"exclude_platform"`

	// TraceProbe logs each probe step at trace level.
	// Env: AFU_TRACE_PROBE.
	TraceProbe bool `yaml:"trace_probe"`

	// AssumeSafeRuntime skips the toolchain gate, accepting raw offset
	// access on Go versions outside the verified range. For callers who
	// have validated the runtime themselves. Env: AFU_ASSUME_SAFE_RUNTIME.
	AssumeSafeRuntime bool `yaml:"assume_safe_runtime"`

	// DefaultTimeoutMS is an advisory await timeout in milliseconds for
	// consumers building blocking helpers on top of updaters. The core
	// itself never blocks. Env: AFU_DEFAULT_TIMEOUT_MS.
	DefaultTimeoutMS int `yaml:"default_timeout_ms"`

	// PoolSize is an advisory worker pool size for consumers,
	// max(GOMAXPROCS-style CPU count, 4) by default. Env: AFU_POOL_SIZE.
	PoolSize int `yaml:"pool_size"`
}

// DefaultTimeout returns DefaultTimeoutMS as a duration.
func (f Flags) DefaultTimeout() time.Duration {
	return time.Duration(f.DefaultTimeoutMS) * time.Millisecond
}

func defaultFlags() Flags {
	return Flags{
		DefaultTimeoutMS: 30000,
		PoolSize:         max(runtime.NumCPU(), 4),
	}
}

var loadOnce = sync.OnceValue(func() Flags {
	return loadFlags(os.Getenv, os.ReadFile)
})

// Config returns the cached process-wide flags.
func Config() Flags {
	return loadOnce()
}

// loadFlags resolves flags from the given lookups. Split from the cache so
// tests can feed synthetic environments.
func loadFlags(getenv func(string) string, readFile func(string) ([]byte, error)) Flags {
	f := defaultFlags()

	if path := getenv("AFU_CONFIG"); path != "" {
		raw, err := readFile(path)
		if err != nil {
			alog.L().Warn("afu: config file unreadable", "path", path, "err", err)
		} else if err := yaml.Unmarshal(raw, &f); err != nil {
			alog.L().Warn("afu: ignoring malformed config file", "path", path, "err", err)
			f = defaultFlags()
		}
	}

	f.Portable = envBool(getenv, "AFU_PORTABLE", f.Portable)
	f.ExcludePlatform = envBool(getenv, "AFU_EXCLUDE_PLATFORM", f.ExcludePlatform)
	f.TraceProbe = envBool(getenv, "AFU_TRACE_PROBE", f.TraceProbe)
	f.AssumeSafeRuntime = envBool(getenv, "AFU_ASSUME_SAFE_RUNTIME", f.AssumeSafeRuntime)
	f.DefaultTimeoutMS = envInt(getenv, "AFU_DEFAULT_TIMEOUT_MS", f.DefaultTimeoutMS)
	f.PoolSize = envInt(getenv, "AFU_POOL_SIZE", f.PoolSize)

	// Out-of-range numerics fall back to defaults rather than failing:
	// configuration must never break startup.
	if f.DefaultTimeoutMS <= 0 {
		f.DefaultTimeoutMS = defaultFlags().DefaultTimeoutMS
	}
	if f.PoolSize < 1 {
		f.PoolSize = defaultFlags().PoolSize
	}
	return f
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		alog.L().Warn("afu: ignoring non-boolean env value", "key", key, "value", v)
		return fallback
	}
	return b
}

func envInt(getenv func(string) string, key string, fallback int) int {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		alog.L().Warn("afu: ignoring non-integer env value", "key", key, "value", v)
		return fallback
	}
	return n
}
