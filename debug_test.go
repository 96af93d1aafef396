package xr

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewNode("parent")
	s.Root().AddChild(parent)

	child := NewNode("child")
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestReleaseMode_DisposedNodeNoOp(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(false)

	child := NewNode("child")
	child.Dispose()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("release mode should not panic on disposed node, got: %v", r)
		}
	}()
	s.Root().AddChild(child)
}

// captureLog routes the package logger into a buffer for the test's duration.
func captureLog(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	buf := captureLog(t, slog.LevelWarn)

	current := s.Root()
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewNode(fmt.Sprintf("depth_%d", i))
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	buf := captureLog(t, slog.LevelWarn)

	parent := NewNode("many_children")
	s.Root().AddChild(parent)
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(NewNode(fmt.Sprintf("c_%d", i)))
	}

	out := buf.String()
	if !strings.Contains(out, "child count exceeds threshold") || !strings.Contains(out, "node=many_children") {
		t.Errorf("expected child count warning, got: %q", out)
	}
}

func TestDebugMode_IntersectStats(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	buf := captureLog(t, slog.LevelDebug)

	for i := 0; i < 3; i++ {
		s.Root().AddChild(NewNode(fmt.Sprintf("n_%d", i)))
	}
	p := NewPointer(s, PointerTypeRay, NewRayIntersector(StaticPose(mgl64.Vec3{}, mgl64.QuatIdent())), PointerOptions{})
	p.Move(NativeEvent{})

	out := buf.String()
	if !strings.Contains(out, "xr: intersect") || !strings.Contains(out, "nodes=4") || !strings.Contains(out, "pointers=1") {
		t.Errorf("expected intersect stats, got: %q", out)
	}
}

func TestReleaseMode_NoIntersectStats(t *testing.T) {
	s := NewScene()
	buf := captureLog(t, slog.LevelDebug)
	p := NewPointer(s, PointerTypeRay, NewRayIntersector(StaticPose(mgl64.Vec3{}, mgl64.QuatIdent())), PointerOptions{})
	p.Move(NativeEvent{})
	if strings.Contains(buf.String(), "xr: intersect") {
		t.Errorf("stats should only be logged in debug mode, got: %q", buf.String())
	}
}
