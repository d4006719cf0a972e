// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import "testing"

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(""))
	if err != nil {
		t.Fatalf("LoadFromBytes(empty) error: %v", err)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want the default %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if cfg.LogLevel != int(InfoLevel) {
		t.Errorf("LogLevel = %d, want info", cfg.LogLevel)
	}
	if len(cfg.TaintProblems) != 0 {
		t.Errorf("an empty config has no taint problems")
	}
}

func TestLoadFromBytesFull(t *testing.T) {
	yaml := `
max-depth: 5
log-level: 4
taint-problems:
  - description: "untrusted price feed"
    sources:
      - contract: "Oracle.*"
        method: "update"
    sinks:
      - variable: "price"
        kind: "stateWrite"
    barriers:
      - method: "sanitize"
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes error: %v", err)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.MaxDepth)
	}
	if len(cfg.TaintProblems) != 1 {
		t.Fatalf("TaintProblems = %d, want 1", len(cfg.TaintProblems))
	}
	spec := cfg.TaintProblems[0]
	if spec.Description != "untrusted price feed" {
		t.Errorf("Description = %q", spec.Description)
	}
	if len(spec.Sources) != 1 || len(spec.Sinks) != 1 || len(spec.Barriers) != 1 {
		t.Fatalf("identifier lists = %d/%d/%d, want 1/1/1",
			len(spec.Sources), len(spec.Sinks), len(spec.Barriers))
	}
	// the contract pattern was compiled to a regex
	if !spec.Sources[0].MatchesOnNonEmptyFields("OracleV2", "update", "", "param") {
		t.Errorf("Oracle.* should match OracleV2 on the contract field")
	}
	if spec.Sources[0].MatchesOnNonEmptyFields("Vault", "update", "", "param") {
		t.Errorf("Oracle.* should not match Vault")
	}
}

func TestLoadFromBytesRejectsBadYaml(t *testing.T) {
	if _, err := LoadFromBytes([]byte("max-depth: [not a number")); err == nil {
		t.Errorf("malformed yaml should be an error")
	}
}

func TestMatchesOnNonEmptyFields(t *testing.T) {
	tests := []struct {
		name string
		cid  CodeIdentifier
		args [4]string
		want bool
	}{
		{
			name: "empty matches anything",
			cid:  CodeIdentifier{},
			args: [4]string{"C", "m", "v", "k"},
			want: true,
		},
		{
			name: "single field match",
			cid:  CodeIdentifier{Method: "withdraw"},
			args: [4]string{"Vault", "withdraw", "", "param"},
			want: true,
		},
		{
			name: "single field mismatch",
			cid:  CodeIdentifier{Method: "withdraw"},
			args: [4]string{"Vault", "deposit", "", "param"},
			want: false,
		},
		{
			name: "all fields must hold",
			cid:  CodeIdentifier{Contract: "Vault", Variable: "balances"},
			args: [4]string{"Vault", "withdraw", "owner", "stateRead"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cid := CompileRegexes(tt.cid)
			got := cid.MatchesOnNonEmptyFields(tt.args[0], tt.args[1], tt.args[2], tt.args[3])
			if got != tt.want {
				t.Errorf("MatchesOnNonEmptyFields(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestCompileRegexesFallback(t *testing.T) {
	// an invalid pattern falls back to string equality on every field
	cid := CompileRegexes(CodeIdentifier{Contract: "Vault(", Method: "withdraw"})
	if !cid.MatchesOnNonEmptyFields("Vault(", "withdraw", "", "") {
		t.Errorf("fallback should compare the literal string")
	}
	if cid.MatchesOnNonEmptyFields("Vault", "withdraw", "", "") {
		t.Errorf("fallback should not do regex matching")
	}
}

func TestLogLevels(t *testing.T) {
	cfg := NewDefault()
	log := NewLogGroup(cfg)
	if log == nil {
		t.Fatal("NewLogGroup returned nil")
	}
	// info-level config logs info but not trace
	if !log.LogsLevel(InfoLevel) {
		t.Errorf("info should be enabled at the default level")
	}
	if log.LogsLevel(TraceLevel) {
		t.Errorf("trace should be disabled at the default level")
	}
}
