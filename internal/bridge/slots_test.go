package bridge

import "testing"

func TestSlotDeliversResult(t *testing.T) {
	var slot resolverSlot[HoverResult]

	ch := slot.begin("/src/a.ts")
	if ok := slot.resolve(HoverResult{Contents: []string{"answer"}}); !ok {
		t.Fatal("resolve returned false with a pending request")
	}

	got := <-ch
	if len(got.Contents) != 1 || got.Contents[0] != "answer" {
		t.Errorf("got %v, want [answer]", got.Contents)
	}
}

func TestSlotPreemptionResolvesOldRequestEmpty(t *testing.T) {
	var slot resolverSlot[HoverResult]

	first := slot.begin("/src/a.ts")
	second := slot.begin("/src/b.ts")

	// The preempted request completes immediately with the empty result.
	got := <-first
	if len(got.Contents) != 0 {
		t.Errorf("preempted request got %v, want empty", got.Contents)
	}

	// The newer request still resolves with the real answer.
	slot.resolve(HoverResult{Contents: []string{"b"}})
	if got := <-second; len(got.Contents) != 1 || got.Contents[0] != "b" {
		t.Errorf("got %v, want [b]", got.Contents)
	}
}

func TestSlotResolveWithoutPending(t *testing.T) {
	var slot resolverSlot[[]DefinitionTarget]

	if slot.resolve(nil) {
		t.Error("resolve returned true with nothing pending")
	}
	if _, ok := slot.pendingPath(); ok {
		t.Error("pendingPath reported a pending request on an idle slot")
	}
}

func TestSlotPendingPath(t *testing.T) {
	var slot resolverSlot[HoverResult]

	slot.begin("/src/a.ts")
	path, ok := slot.pendingPath()
	if !ok || path != "/src/a.ts" {
		t.Errorf("got (%q, %v), want (/src/a.ts, true)", path, ok)
	}

	slot.resolveEmpty()
	if _, ok := slot.pendingPath(); ok {
		t.Error("slot still pending after resolveEmpty")
	}
}
