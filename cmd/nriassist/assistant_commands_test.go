package main

import (
	"encoding/json"
	"strings"
	"testing"

	"nriassist/internal/api"
	"nriassist/internal/script"
)

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "nre", "account"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, `matches for "nre account"`)
	requireContains(t, out, "nreInfo")
	requireContains(t, out, "NRE Account - Your gateway to India")

	out, _, err = runCLI(t, []string{"search", "--json", "nre account"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("search --json: %v", err)
	}
	var resp api.SearchResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(resp.Results) == 0 || resp.Results[0].Label != "🏦 NRE Account - Your gateway to India" {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
	if len(resp.Results) > env.cfg.Search.MaxResults {
		t.Fatalf("results exceed max_results: %d", len(resp.Results))
	}
}

func TestSearchCommandRejectsBadOverrides(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"search", "--scorer", "phonetic", "nre"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected unknown scorer to fail")
	}
	_, _, err = runCLI(t, []string{"search", "--threshold", "1.5", "nre"}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected threshold range error, got %v", err)
	}
}

func TestScriptCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"script"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	requireContains(t, out, "start")
	requireContains(t, out, "selectAccountType")

	out, _, err = runCLI(t, []string{"script", "start"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("script start: %v", err)
	}
	requireContains(t, out, "[start]")
	requireContains(t, out, "1. Open an NRI Account")

	out, _, err = runCLI(t, []string{"script", "--json", "nreInfo"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("script --json: %v", err)
	}
	var node script.Node
	if err := json.Unmarshal([]byte(out), &node); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if node.Key != "nreInfo" {
		t.Fatalf("unexpected node %+v", node)
	}

	_, _, err = runCLI(t, []string{"script", "nope"}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
