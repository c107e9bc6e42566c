package bridge

import (
	"testing"

	"github.com/editkit/tsbridge/internal/protocol"
)

func TestTransitionTable(t *testing.T) {
	managed := func(path string) *fakeDoc { return newFakeDoc(path, "typescript") }
	unmanaged := func(path string) *fakeDoc { return newFakeDoc(path, "markdown") }

	tests := []struct {
		name string
		prev *fakeDoc
		next *fakeDoc
		want []string
	}{
		{name: "unmanaged to unmanaged", prev: unmanaged("/a.md"), next: unmanaged("/b.md"), want: nil},
		{name: "unmanaged to managed", prev: unmanaged("/a.md"), next: managed("/b.ts"), want: []string{"open"}},
		{name: "managed to unmanaged", prev: managed("/a.ts"), next: unmanaged("/b.md"), want: []string{"close"}},
		{name: "managed to managed", prev: managed("/a.ts"), next: managed("/b.ts"), want: []string{"updateOpen"}},
		{name: "nothing to managed", prev: nil, next: managed("/b.ts"), want: []string{"open"}},
		{name: "managed to nothing", prev: managed("/a.ts"), next: nil, want: []string{"close"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sender, registry, _ := newTestBridge()
			editor := b.NewEditor("tab-1")

			if tt.prev != nil {
				registry.add(tt.prev)
				editor.SetDocument(tt.prev)
			}
			sender.reset()

			if tt.next != nil {
				registry.add(tt.next)
				editor.SetDocument(tt.next)
			} else {
				editor.SetDocument(nil)
			}

			got := sender.commands()
			if len(got) != len(tt.want) {
				t.Fatalf("got commands %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("command[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestUpdateOpenCarriesBothPaths(t *testing.T) {
	b, sender, registry, _ := newTestBridge()
	editor := b.NewEditor("tab-1")

	a := newFakeDoc("/src/a.ts", "typescript")
	c := newFakeDoc("/src/c.tsx", "typescriptreact")
	registry.add(a)
	registry.add(c)

	editor.SetDocument(a)
	sender.reset()
	editor.SetDocument(c)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("got %d commands, want 1", len(sender.sent))
	}
	args, ok := sender.sent[0].args.(protocol.UpdateOpenArgs)
	if !ok {
		t.Fatalf("args type %T, want UpdateOpenArgs", sender.sent[0].args)
	}
	if len(args.ClosedFiles) != 1 || args.ClosedFiles[0] != "/src/a.ts" {
		t.Errorf("ClosedFiles = %v, want [/src/a.ts]", args.ClosedFiles)
	}
	if len(args.OpenFiles) != 1 || args.OpenFiles[0] != "/src/c.tsx" {
		t.Errorf("OpenFiles = %v, want [/src/c.tsx]", args.OpenFiles)
	}
}

// A tab walking a.ts -> b.txt -> c.tsx must produce close(a) then open(c),
// never an updateOpen pairing a with c.
func TestTabWalkThroughUnmanagedFile(t *testing.T) {
	b, sender, registry, _ := newTestBridge()
	editor := b.NewEditor("tab-1")

	a := newFakeDoc("/src/a.ts", "typescript")
	txt := newFakeDoc("/src/b.txt", "plaintext")
	c := newFakeDoc("/src/c.tsx", "typescriptreact")
	registry.add(a)
	registry.add(txt)
	registry.add(c)

	editor.SetDocument(a)
	sender.reset()

	editor.SetDocument(txt)
	editor.SetDocument(c)

	want := []string{"close", "open"}
	got := sender.commands()
	if len(got) != len(want) {
		t.Fatalf("got commands %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListenersDisposedOnSwap(t *testing.T) {
	b, _, registry, _ := newTestBridge()
	editor := b.NewEditor("tab-1")

	a := newFakeDoc("/src/a.ts", "typescript")
	c := newFakeDoc("/src/c.ts", "typescript")
	registry.add(a)
	registry.add(c)

	editor.SetDocument(a)
	if got := a.listenerCount(); got != 1 {
		t.Fatalf("a listeners = %d, want 1", got)
	}

	editor.SetDocument(c)
	if got := a.listenerCount(); got != 0 {
		t.Errorf("a listeners after swap = %d, want 0", got)
	}
	if got := c.listenerCount(); got != 1 {
		t.Errorf("c listeners = %d, want 1", got)
	}
}

func TestCloseClearsDiagnosticState(t *testing.T) {
	b, _, registry, _ := newTestBridge()
	editor := b.NewEditor("tab-1")

	a := newFakeDoc("/src/a.ts", "typescript")
	registry.add(a)
	editor.SetDocument(a)

	b.Aggregator().SetBucket("/src/a.ts", protocol.DiagnosticSemantic, []protocol.Diagnostic{
		diag("error", "x", 1),
	})
	editor.Close()

	if got := b.Aggregator().MergedMarkers("/src/a.ts"); got != nil {
		t.Errorf("markers after close = %v, want nil", got)
	}
}

func TestCompletionRequestStaleness(t *testing.T) {
	b, _, _, _ := newTestBridge()
	editor := b.NewEditor("tab-1")

	first := editor.NextCompletionRequest()
	second := editor.NextCompletionRequest()

	if editor.IsCurrentCompletionRequest(first) {
		t.Error("superseded completion request still reported current")
	}
	if !editor.IsCurrentCompletionRequest(second) {
		t.Error("latest completion request not reported current")
	}
}
