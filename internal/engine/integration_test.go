package engine_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"checkstyle/internal/api"
	"checkstyle/internal/checks"
	"checkstyle/internal/config"
	"checkstyle/internal/engine"
	"checkstyle/internal/goparse"
	"checkstyle/internal/report"
)

const configTemplate = `
%s

[[module]]
name = "LineLength"
[module.properties]
max = "30"

[[module]]
name = "MultiThreadTreeWalker"

[[module.module]]
name = "FuncCount"
[module.module.properties]
max = "1"
`

type checkerRun interface {
	Configure(cfg *config.Config) error
	Process(ctx context.Context, files []string) (int, error)
	AddListener(l api.AuditListener)
}

func runConfigured(t *testing.T, threadsTOML string, files []string) (int, *report.SeverityCounter) {
	t.Helper()

	reg := config.NewRegistry()
	engine.RegisterModules(reg, goparse.New(), nil)
	checks.Register(reg)

	cfg, err := config.Parse(fmt.Sprintf(configTemplate, threadsTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rootName, err := cfg.ThreadMode().ResolveName(cfg.Name())
	if err != nil {
		t.Fatalf("ResolveName: %v", err)
	}
	module, err := reg.CreateModule(rootName)
	if err != nil {
		t.Fatalf("CreateModule(%s): %v", rootName, err)
	}
	checker, ok := module.(checkerRun)
	if !ok {
		t.Fatalf("%s is not a checker", rootName)
	}

	counter := report.NewSeverityCounter()
	checker.AddListener(counter)
	if err := checker.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	errorCount, err := checker.Process(context.Background(), files)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return errorCount, counter
}

func writeSources(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()

	noisy := filepath.Join(dir, "noisy.go")
	noisySource := `package sample

// this comment line is definitely longer than thirty characters
func one() {}

func two() {}
`
	if err := os.WriteFile(noisy, []byte(noisySource), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	clean := filepath.Join(dir, "clean.go")
	if err := os.WriteFile(clean, []byte("package sample\n\nfunc only() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return []string{noisy, clean}
}

func TestEndToEnd_SingleAndMultiThreadAgree(t *testing.T) {
	files := writeSources(t)

	// Одиночный режим: корень остаётся обычным Checker.
	singleErrors, singleCounter := runConfigured(t, "", files)
	// Многопоточный режим: корень превращается в MultiThreadChecker.
	multiErrors, multiCounter := runConfigured(t,
		"checker_threads = 4\ntree_walker_threads = 2", files)

	// FuncCount в noisy.go плюс LineLength там же.
	if singleErrors != 2 {
		t.Errorf("single-thread errors = %d, want 2", singleErrors)
	}
	if multiErrors != singleErrors {
		t.Errorf("multi-thread errors = %d, single-thread = %d, want equal",
			multiErrors, singleErrors)
	}
	if singleCounter.Errors() != multiCounter.Errors() {
		t.Errorf("counter errors diverge: %d vs %d",
			singleCounter.Errors(), multiCounter.Errors())
	}
}
