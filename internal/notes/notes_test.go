package notes

import "testing"

func TestAddAssignsMonotonicIDs(t *testing.T) {
	t.Parallel()

	canvas := NewCanvas()
	first := canvas.Add("q1", "<p>a1</p>", "a1", nil)
	second := canvas.Add("q2", "<p>a2</p>", "a2", nil)

	if first.ID >= second.ID {
		t.Fatalf("ids not monotonic: %d then %d", first.ID, second.ID)
	}
	if canvas.Len() != 2 {
		t.Fatalf("expected 2 notes, got %d", canvas.Len())
	}
}

func TestAddCopiesImageRef(t *testing.T) {
	t.Parallel()

	canvas := NewCanvas()
	image := &ImageRef{URL: "/local/fig.png", Description: "figure"}
	note := canvas.Add("q", "a", "a", image)

	image.URL = "https://elsewhere/fig.png"
	if note.Image.URL != "/local/fig.png" {
		t.Fatalf("note image mutated through caller reference: %q", note.Image.URL)
	}
}

func TestAddAllowsDuplicates(t *testing.T) {
	t.Parallel()

	canvas := NewCanvas()
	canvas.Add("same", "body", "body", nil)
	canvas.Add("same", "body", "body", nil)
	if canvas.Len() != 2 {
		t.Fatalf("duplicate promotion should create two notes, got %d", canvas.Len())
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	canvas := NewCanvas()
	keep := canvas.Add("keep", "a", "a", nil)
	drop := canvas.Add("drop", "b", "b", nil)

	if !canvas.Remove(drop.ID) {
		t.Fatal("expected removal to succeed")
	}
	if canvas.Remove(drop.ID) {
		t.Fatal("second removal of the same id should fail")
	}

	remaining := canvas.Notes()
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Fatalf("unexpected canvas contents: %#v", remaining)
	}
}

func TestNotesReturnsCopy(t *testing.T) {
	t.Parallel()

	canvas := NewCanvas()
	canvas.Add("q", "a", "a", nil)
	snapshot := canvas.Notes()
	snapshot[0].Question = "tampered"

	if canvas.Notes()[0].Question != "q" {
		t.Fatal("canvas mutated through returned slice")
	}
}
