package config

import (
	"reflect"
	"testing"
)

func TestApplyDefaults_FillsUnset(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("ApplyDefaults(empty) = %+v, want DefaultConfig()", cfg)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Build:    BuildConfig{CMakePath: "/usr/bin/cmake", Jobs: 4},
		Runner:   RunnerConfig{CancelGrace: "1s", Shell: "/bin/sh"},
		Log:      LogConfig{Level: "debug", KeepRuns: 2},
		Defaults: DefaultsConfig{Remember: boolPtr(true)},
	}
	ApplyDefaults(cfg)

	if cfg.Build.CMakePath != "/usr/bin/cmake" || cfg.Build.Jobs != 4 {
		t.Errorf("Build overwritten: %+v", cfg.Build)
	}
	if cfg.Runner.CancelGrace != "1s" || cfg.Runner.TeardownGrace != "3s" || cfg.Runner.Shell != "/bin/sh" {
		t.Errorf("Runner = %+v", cfg.Runner)
	}
	if cfg.Log.Level != "debug" || cfg.Log.KeepRuns != 2 {
		t.Errorf("Log overwritten: %+v", cfg.Log)
	}
	if !cfg.RememberDefaults() {
		t.Error("explicit remember=true overwritten")
	}
}

func TestMergeEnv(t *testing.T) {
	tests := []struct {
		name     string
		base     map[string]string
		override map[string]string
		want     map[string]string
	}{
		{"both empty", nil, map[string]string{}, nil},
		{"base only", map[string]string{"A": "1"}, nil, map[string]string{"A": "1"}},
		{"override wins", map[string]string{"A": "1", "B": "2"}, map[string]string{"B": "3"}, map[string]string{"A": "1", "B": "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeEnv(tt.base, tt.override)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeEnv() = %v, want %v", got, tt.want)
			}
		})
	}

	base := map[string]string{"A": "1"}
	merged := MergeEnv(base, map[string]string{"A": "2"})
	merged["C"] = "x"
	if base["A"] != "1" || len(base) != 1 {
		t.Error("MergeEnv modified its input")
	}
}
