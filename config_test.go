// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func fileFrom(path string, data []byte) func(string) ([]byte, error) {
	return func(p string) ([]byte, error) {
		if p != path {
			return nil, fmt.Errorf("open %s: no such file", p)
		}
		return data, nil
	}
}

func noFiles(p string) ([]byte, error) {
	return nil, fmt.Errorf("open %s: no such file", p)
}

// =============================================================================
// Flag resolution
// =============================================================================

func TestLoadFlagsDefaults(t *testing.T) {
	f := loadFlags(envFrom(nil), noFiles)
	if f.Portable || f.ExcludePlatform || f.TraceProbe || f.AssumeSafeRuntime {
		t.Fatalf("boolean flags default on: %+v", f)
	}
	if f.DefaultTimeoutMS != 30000 {
		t.Fatalf("DefaultTimeoutMS = %d, want 30000", f.DefaultTimeoutMS)
	}
	if want := max(runtime.NumCPU(), 4); f.PoolSize != want {
		t.Fatalf("PoolSize = %d, want %d", f.PoolSize, want)
	}
	if f.DefaultTimeout() != 30*time.Second {
		t.Fatalf("DefaultTimeout = %v, want 30s", f.DefaultTimeout())
	}
}

func TestLoadFlagsEnvOverrides(t *testing.T) {
	f := loadFlags(envFrom(map[string]string{
		"AFU_PORTABLE":           "true",
		"AFU_TRACE_PROBE":        "1",
		"AFU_DEFAULT_TIMEOUT_MS": "250",
		"AFU_POOL_SIZE":          "8",
	}), noFiles)
	if !f.Portable || !f.TraceProbe {
		t.Fatalf("env booleans not applied: %+v", f)
	}
	if f.ExcludePlatform || f.AssumeSafeRuntime {
		t.Fatalf("unset booleans flipped: %+v", f)
	}
	if f.DefaultTimeoutMS != 250 || f.PoolSize != 8 {
		t.Fatalf("env numerics not applied: %+v", f)
	}
}

func TestLoadFlagsYAMLFile(t *testing.T) {
	yml := []byte("portable: true\nexclude_platform: true\ndefault_timeout_ms: 1000\npool_size: 2\n")
	f := loadFlags(envFrom(map[string]string{
		"AFU_CONFIG": "/etc/afu.yaml",
	}), fileFrom("/etc/afu.yaml", yml))
	if !f.Portable || !f.ExcludePlatform {
		t.Fatalf("yaml booleans not applied: %+v", f)
	}
	if f.DefaultTimeoutMS != 1000 || f.PoolSize != 2 {
		t.Fatalf("yaml numerics not applied: %+v", f)
	}
}

func TestLoadFlagsEnvWinsOverYAML(t *testing.T) {
	yml := []byte("portable: true\ndefault_timeout_ms: 1000\n")
	f := loadFlags(envFrom(map[string]string{
		"AFU_CONFIG":             "/etc/afu.yaml",
		"AFU_PORTABLE":           "false",
		"AFU_DEFAULT_TIMEOUT_MS": "500",
	}), fileFrom("/etc/afu.yaml", yml))
	if f.Portable {
		t.Fatal("env false did not override yaml true")
	}
	if f.DefaultTimeoutMS != 500 {
		t.Fatalf("DefaultTimeoutMS = %d, want env value 500", f.DefaultTimeoutMS)
	}
}

func TestLoadFlagsMalformedYAML(t *testing.T) {
	f := loadFlags(envFrom(map[string]string{
		"AFU_CONFIG": "/etc/afu.yaml",
	}), fileFrom("/etc/afu.yaml", []byte("portable: [unclosed")))
	if f != loadFlags(envFrom(nil), noFiles) {
		t.Fatalf("malformed yaml did not fall back to defaults: %+v", f)
	}
}

func TestLoadFlagsUnreadableFile(t *testing.T) {
	f := loadFlags(envFrom(map[string]string{
		"AFU_CONFIG":   "/missing.yaml",
		"AFU_PORTABLE": "true",
	}), noFiles)
	if !f.Portable {
		t.Fatal("env not applied after unreadable config file")
	}
}

func TestLoadFlagsBadValues(t *testing.T) {
	f := loadFlags(envFrom(map[string]string{
		"AFU_PORTABLE":           "maybe",
		"AFU_DEFAULT_TIMEOUT_MS": "soon",
		"AFU_POOL_SIZE":          "-3",
	}), noFiles)
	if f.Portable {
		t.Fatal("non-boolean value parsed as true")
	}
	if f.DefaultTimeoutMS != 30000 {
		t.Fatalf("DefaultTimeoutMS = %d, want default after bad value", f.DefaultTimeoutMS)
	}
	if want := max(runtime.NumCPU(), 4); f.PoolSize != want {
		t.Fatalf("PoolSize = %d, want default after out-of-range value", f.PoolSize)
	}
}

func TestConfigCached(t *testing.T) {
	if Config() != Config() {
		t.Fatal("Config not stable across calls")
	}
}
