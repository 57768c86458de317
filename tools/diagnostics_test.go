package tools

import (
	"context"
	"strings"
	"testing"
)

func diagnosticsRegistry() *Registry {
	r := NewRegistry()
	RegisterDiagnostics(r)
	return r
}

func runTool(t *testing.T, r *Registry, name string, args map[string]any) *Result {
	t.Helper()
	exec, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("tool %s not registered", name)
	}
	res, err := exec(context.Background(), args)
	if err != nil {
		t.Fatalf("%s returned error: %v", name, err)
	}
	if res == nil {
		t.Fatalf("%s returned nil result", name)
	}
	return res
}

func TestDiagnosticsRegistration(t *testing.T) {
	r := diagnosticsRegistry()
	want := []string{
		"scan_virus",
		"get_network_config",
		"get_system_info",
		"check_disk_health",
		"get_running_processes",
		"test_network_connection",
		"get_system_services",
		"install_ps_module",
	}
	schemas := r.Schemas()
	if len(schemas) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(schemas))
	}
	for i, name := range want {
		if schemas[i].Name != name {
			t.Errorf("schemas[%d] = %q, want %q", i, schemas[i].Name, name)
		}
	}
}

func TestScriptedToolsCarryRawData(t *testing.T) {
	r := diagnosticsRegistry()
	for _, name := range []string{
		"scan_virus", "get_network_config", "get_system_info",
		"check_disk_health", "get_running_processes", "get_system_services",
	} {
		t.Run(name, func(t *testing.T) {
			res := runTool(t, r, name, nil)
			if res.RawData == "" {
				t.Error("scripted diagnostic should return raw data for analysis")
			}
			if res.Display.String() == "" {
				t.Error("scripted diagnostic should produce display output")
			}
			if res.Prompt != nil {
				t.Error("non-interactive diagnostic should not prompt")
			}
		})
	}
}

func TestScanVirusRevealsLines(t *testing.T) {
	res := runTool(t, diagnosticsRegistry(), "scan_virus", nil)
	if len(res.Display.Lines) == 0 {
		t.Fatal("scan output should be revealed line by line")
	}
	if res.Display.Interval <= 0 {
		t.Error("line reveal needs a positive interval")
	}
	last := res.Display.Lines[len(res.Display.Lines)-1]
	if !strings.Contains(last, "scan time") {
		t.Errorf("unexpected final line %q", last)
	}
}

func TestTestNetworkConnection(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		wantPort    string
		wantSuccess bool
	}{
		{
			name:        "default port",
			args:        map[string]any{"computerName": "google.com"},
			wantPort:    "port 80",
			wantSuccess: true,
		},
		{
			name:        "https",
			args:        map[string]any{"computerName": "example.com", "port": 443.0},
			wantPort:    "port 443",
			wantSuccess: true,
		},
		{
			name:        "blocked port",
			args:        map[string]any{"computerName": "example.com", "port": 3389.0},
			wantPort:    "port 3389",
			wantSuccess: false,
		},
	}

	r := diagnosticsRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runTool(t, r, "test_network_connection", tt.args)
			display := res.Display.String()
			if !strings.Contains(display, tt.wantPort) {
				t.Errorf("display missing %q:\n%s", tt.wantPort, display)
			}
			wantTCP := "TcpTestSucceeded       : false"
			if tt.wantSuccess {
				wantTCP = "TcpTestSucceeded       : true"
			}
			if !strings.Contains(display, wantTCP) {
				t.Errorf("display missing %q:\n%s", wantTCP, display)
			}
			if !strings.Contains(res.RawData, tt.wantPort) {
				t.Errorf("raw data missing %q: %s", tt.wantPort, res.RawData)
			}
		})
	}
}

func TestInstallPSModuleTwoPhase(t *testing.T) {
	r := diagnosticsRegistry()

	// Phase 1: no confirmation yet, the tool pauses on a continuation.
	res := runTool(t, r, "install_ps_module", map[string]any{"moduleName": "dbatools"})
	if res.Prompt == nil {
		t.Fatal("first phase should prompt for NuGet confirmation")
	}
	if res.RawData == "" {
		t.Error("prompt phase should still report raw data so the model can explain the pause")
	}
	if len(res.Prompt.Choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(res.Prompt.Choices))
	}

	yes := res.Prompt.Choices[0]
	if yes.Label != "Yes" || yes.Call == nil {
		t.Fatalf("first choice should be a Yes call, got %+v", yes)
	}
	if yes.Call.Name != "install_ps_module" {
		t.Errorf("Yes call name = %q", yes.Call.Name)
	}
	if yes.Call.Args["moduleName"] != "dbatools" {
		t.Errorf("Yes call should carry the module name, got %v", yes.Call.Args["moduleName"])
	}
	if yes.Call.Args["confirmNuget"] != true {
		t.Error("Yes call should set confirmNuget")
	}

	no := res.Prompt.Choices[1]
	if no.Label != "No" || no.Text == "" || no.Call != nil {
		t.Fatalf("second choice should be a plain-text No, got %+v", no)
	}

	// Phase 2: resubmitted with confirmation, the install runs.
	res = runTool(t, r, "install_ps_module", yes.Call.Args)
	if res.Prompt != nil {
		t.Error("confirmed phase should not prompt again")
	}
	if !strings.Contains(res.Display.String(), "Installation complete.") {
		t.Errorf("install output missing completion line:\n%s", res.Display.String())
	}
	if !strings.Contains(res.RawData, "dbatools") {
		t.Errorf("raw data should name the installed module: %s", res.RawData)
	}
}
