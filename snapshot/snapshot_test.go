package snapshot

import (
	"bytes"
	"testing"

	"pdp11/intr"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := &State{
		R:      [8]uint16{1, 2, 3, 4, 5, 6, 7, 0o1000},
		KSP:    0o1000,
		PSW:    0o340,
		BootPC: 0o173000,
		Pending: []intr.Request{
			{Vector: 0o100, BR: 6, Dev: "kw11"},
		},
		RAM: []uint16{0o12700, 1, 2, 3},
	}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.R != s.R {
		t.Errorf("R = %v, want %v", got.R, s.R)
	}
	if got.KSP != s.KSP || got.PSW != s.PSW || got.BootPC != s.BootPC {
		t.Errorf("scalar fields mismatch: %+v", got)
	}
	if len(got.Pending) != 1 || got.Pending[0].Dev != "kw11" {
		t.Errorf("Pending = %+v", got.Pending)
	}
	if len(got.RAM) != 4 || got.RAM[0] != 0o12700 {
		t.Errorf("RAM = %v", got.RAM)
	}
}
