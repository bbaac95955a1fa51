package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// stubParser hands out prebuilt trees and counts invocations.
type stubParser struct {
	root        *api.AstNode
	commentRoot *api.AstNode
	err         error
	calls       int
}

func (p *stubParser) Parse(_ *api.FileText, withComments bool) (*api.AstNode, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if withComments && p.commentRoot != nil {
		return p.commentRoot, nil
	}
	return p.root, nil
}

// sampleTree builds File{FuncDecl{Ident}, GenDecl}.
func sampleTree() *api.AstNode {
	root := &api.AstNode{Type: "File", Line: 1, Column: 1}
	fn := &api.AstNode{Type: "FuncDecl", Line: 3, Column: 1}
	fn.AddChild(&api.AstNode{Type: "Ident", Text: "main", Line: 3, Column: 6})
	root.AddChild(fn)
	root.AddChild(&api.AstNode{Type: "GenDecl", Line: 8, Column: 1})
	return root
}

func sampleText() *api.FileText {
	return api.NewFileText("sample.go", []byte("package sample\n"))
}

// recordingCheck writes every notification it receives into its own log.
type recordingCheck struct {
	api.BaseCheck
	tokens  []string
	comment bool
	events  []string
}

func (c *recordingCheck) Concurrency() api.Concurrency { return api.ConcurrencyPerThread }
func (c *recordingCheck) TokenTypes() []string         { return c.tokens }
func (c *recordingCheck) RequiresCommentNodes() bool   { return c.comment }

func (c *recordingCheck) BeginTree(_ *api.CheckContext, _ *api.AstNode) {
	c.events = append(c.events, "begin")
}

func (c *recordingCheck) VisitToken(_ *api.CheckContext, node *api.AstNode) {
	c.events = append(c.events, "visit:"+node.Type)
}

func (c *recordingCheck) LeaveToken(_ *api.CheckContext, node *api.AstNode) {
	c.events = append(c.events, "leave:"+node.Type)
}

func (c *recordingCheck) FinishTree(_ *api.CheckContext, _ *api.AstNode) {
	c.events = append(c.events, "finish")
}

// countingCheck reports the node count of every tree it walked.
type countingCheck struct {
	api.BaseCheck
	count int
}

func (c *countingCheck) Concurrency() api.Concurrency { return api.ConcurrencyPerThread }
func (c *countingCheck) TokenTypes() []string         { return nil }

func (c *countingCheck) BeginTree(_ *api.CheckContext, _ *api.AstNode) { c.count = 0 }

func (c *countingCheck) VisitToken(_ *api.CheckContext, _ *api.AstNode) { c.count++ }

func (c *countingCheck) FinishTree(ctx *api.CheckContext, _ *api.AstNode) {
	c.LogAt(ctx, 1, 1, "tree has %d nodes", c.count)
}

// panicCheck blows up on the first node.
type panicCheck struct {
	api.BaseCheck
}

func (*panicCheck) Concurrency() api.Concurrency { return api.ConcurrencyPerThread }
func (*panicCheck) TokenTypes() []string         { return nil }

func (*panicCheck) VisitToken(*api.CheckContext, *api.AstNode) { panic("boom") }

func TestTreeWalker_EventOrder(t *testing.T) {
	check := &recordingCheck{}
	w := NewTreeWalker(&stubParser{root: sampleTree()})
	w.RegisterCheck(check)

	if _, err := w.Process(context.Background(), sampleText()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []string{
		"begin",
		"visit:File",
		"visit:FuncDecl",
		"visit:Ident",
		"leave:Ident",
		"leave:FuncDecl",
		"visit:GenDecl",
		"leave:GenDecl",
		"leave:File",
		"finish",
	}
	if diff := cmp.Diff(want, check.events); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeWalker_TokenTypeDispatch(t *testing.T) {
	check := &recordingCheck{tokens: []string{"FuncDecl"}}
	w := NewTreeWalker(&stubParser{root: sampleTree()})
	w.RegisterCheck(check)

	if _, err := w.Process(context.Background(), sampleText()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []string{"begin", "visit:FuncDecl", "leave:FuncDecl", "finish"}
	if diff := cmp.Diff(want, check.events); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeWalker_EmptyFileStillNotifiesTreeLifecycle(t *testing.T) {
	check := &recordingCheck{}
	parser := &stubParser{root: sampleTree()}
	w := NewTreeWalker(parser)
	w.RegisterCheck(check)

	blank := api.NewFileText("blank.go", []byte(" \n\t\n"))
	if _, err := w.Process(context.Background(), blank); err != nil {
		t.Fatalf("Process: %v", err)
	}

	// Парсер для пустого файла не вызывается, но begin и finish приходят.
	if parser.calls != 0 {
		t.Errorf("parser called %d times for an empty file", parser.calls)
	}
	if diff := cmp.Diff([]string{"begin", "finish"}, check.events); diff != "" {
		t.Errorf("lifecycle mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeWalker_CommentPass(t *testing.T) {
	commentRoot := sampleTree()
	group := &api.AstNode{Type: "CommentGroup", Line: 2, Column: 1}
	group.AddChild(&api.AstNode{Type: "Comment", Text: "// note", Line: 2, Column: 1})
	commentRoot.AddChild(group)

	ordinary := &recordingCheck{}
	comments := &recordingCheck{comment: true, tokens: []string{"Comment"}}
	w := NewTreeWalker(&stubParser{root: sampleTree(), commentRoot: commentRoot})
	w.RegisterCheck(ordinary)
	w.RegisterCheck(comments)

	if _, err := w.Process(context.Background(), sampleText()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if diff := cmp.Diff([]string{"begin", "visit:Comment", "leave:Comment", "finish"}, comments.events); diff != "" {
		t.Errorf("comment pass mismatch (-want +got):\n%s", diff)
	}
	// Обычный проход не видит комментариев.
	for _, event := range ordinary.events {
		if strings.Contains(event, "Comment") {
			t.Errorf("ordinary pass saw %q", event)
		}
	}
}

func TestTreeWalker_MergesViolationsSorted(t *testing.T) {
	counter := &countingCheck{}
	if err := counter.Configure(config.NewConfig("NodeCount")); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	w := NewTreeWalker(&stubParser{root: sampleTree()})
	w.RegisterCheck(counter)

	set, err := w.Process(context.Background(), sampleText())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	items := set.Items()
	if len(items) != 1 {
		t.Fatalf("got %d violations, want 1", len(items))
	}
	if items[0].Message != "tree has 4 nodes" {
		t.Errorf("message = %q", items[0].Message)
	}
	if items[0].Source != "NodeCount" {
		t.Errorf("source = %q, want NodeCount", items[0].Source)
	}
}

func TestTreeWalker_PanicBecomesError(t *testing.T) {
	w := NewTreeWalker(&stubParser{root: sampleTree()})
	w.RegisterCheck(&panicCheck{})

	_, err := w.Process(context.Background(), sampleText())
	if err == nil {
		t.Fatal("Process expected error after a check panic")
	}
	if !strings.Contains(err.Error(), "check failure") {
		t.Errorf("error = %q", err)
	}
}

func newConfiguredMultiWalker(t *testing.T, parser api.Parser, checkerThreads, walkerThreads int, checks ...api.Check) *MultiThreadTreeWalker {
	t.Helper()
	settings, err := config.NewThreadModeSettings(checkerThreads, walkerThreads)
	if err != nil {
		t.Fatalf("NewThreadModeSettings: %v", err)
	}
	w := NewMultiThreadTreeWalker(parser)
	cfg := config.NewConfig(config.MultiThreadTreeWalkerModuleName)
	cfg.SetThreadMode(settings)
	if err := w.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	for _, check := range checks {
		w.RegisterCheck(check)
	}
	return w
}

func TestMultiThreadTreeWalker_MatchesSequentialResults(t *testing.T) {
	single := NewTreeWalker(&stubParser{root: sampleTree()})
	singleCounter := &countingCheck{}
	if err := singleCounter.Configure(config.NewConfig("NodeCount")); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	single.RegisterCheck(singleCounter)

	multiCounter := &countingCheck{}
	if err := multiCounter.Configure(config.NewConfig("NodeCount")); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	multi := newConfiguredMultiWalker(t, &stubParser{root: sampleTree()}, 1, 4, multiCounter)

	wantSet, err := single.Process(context.Background(), sampleText())
	if err != nil {
		t.Fatalf("sequential Process: %v", err)
	}
	gotSet, err := multi.Process(context.Background(), sampleText())
	if err != nil {
		t.Fatalf("parallel Process: %v", err)
	}
	if diff := cmp.Diff(wantSet.Items(), gotSet.Items()); diff != "" {
		t.Errorf("parallel results diverge from sequential (-want +got):\n%s", diff)
	}
}

func TestMultiThreadTreeWalker_PreservesPerCheckOrder(t *testing.T) {
	check := &recordingCheck{}
	multi := newConfiguredMultiWalker(t, &stubParser{root: sampleTree()}, 1, 4, check)

	if _, err := multi.Process(context.Background(), sampleText()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	// Порядок очереди чека совпадает с последовательным обходом.
	want := []string{
		"begin",
		"visit:File",
		"visit:FuncDecl",
		"visit:Ident",
		"leave:Ident",
		"leave:FuncDecl",
		"visit:GenDecl",
		"leave:GenDecl",
		"leave:File",
		"finish",
	}
	if diff := cmp.Diff(want, check.events); diff != "" {
		t.Errorf("queue replay mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiThreadTreeWalker_PanicFailsTheRun(t *testing.T) {
	multi := newConfiguredMultiWalker(t, &stubParser{root: sampleTree()}, 1, 2, &panicCheck{})

	_, err := multi.Process(context.Background(), sampleText())
	if err == nil {
		t.Fatal("Process expected error after a check panic")
	}
	if !strings.Contains(err.Error(), "unable to execute checkstyle tasks") {
		t.Errorf("error = %q, want task execution failure", err)
	}
}

func TestMultiThreadTreeWalker_Cancellation(t *testing.T) {
	multi := newConfiguredMultiWalker(t, &stubParser{root: sampleTree()}, 1, 2, &recordingCheck{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := multi.Process(ctx, sampleText())
	if err == nil {
		t.Fatal("Process expected error for a cancelled context")
	}
	if !strings.Contains(err.Error(), "unable to execute checkstyle tasks") {
		t.Errorf("error = %q, want task execution failure", err)
	}
}
