package command

import (
	"io"
	"testing"
)

type stubCommand struct {
	*BaseCommand
	executed bool
}

func newStubCommand(name string) *stubCommand {
	return &stubCommand{BaseCommand: NewBaseCommand(name, "stub "+name, name)}
}

func (c *stubCommand) Execute(args []string, stdout, stderr io.Writer) error {
	c.executed = true
	return nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	cmd := newStubCommand("probe")
	r.Register(cmd)

	got, err := r.Get("probe")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name() != "probe" {
		t.Fatalf("expected probe, got %s", got.Name())
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nope"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(newStubCommand("zeta"))
	r.Register(newStubCommand("alpha"))
	r.Register(newStubCommand("mid"))

	got := r.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRegistryReplaceOnReregister(t *testing.T) {
	r := NewRegistry()
	first := newStubCommand("dup")
	second := newStubCommand("dup")
	r.Register(first)
	r.Register(second)

	got, err := r.Get("dup")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != Command(second) {
		t.Fatal("expected the later registration to win")
	}
	if len(r.List()) != 1 {
		t.Fatalf("expected a single entry, got %v", r.List())
	}
}
