package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeSymbols(t *testing.T, text string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "prog.ic.sym")
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestParseSymbols(t *testing.T) {
	name := writeSymbols(t, `# game loop
40 loop
0 start

12	read_joystick
40 loop_top
`)
	syms, err := parseSymbols(name)
	if err != nil {
		t.Fatal(err)
	}
	want := symbols{
		{0, "start"},
		{12, "read_joystick"},
		{40, "loop"},
		{40, "loop_top"},
	}
	if !reflect.DeepEqual(syms, want) {
		t.Errorf("got %v, want %v", syms, want)
	}

	if g, w := syms.forAddr(40), []symbol{{40, "loop"}, {40, "loop_top"}}; !reflect.DeepEqual(g, w) {
		t.Errorf("forAddr(40) = %v, want %v", g, w)
	}
	if g := syms.forAddr(41); g != nil {
		t.Errorf("forAddr(41) = %v, want none", g)
	}
	if g := syms.withLabelPrefix("loop"); len(g) != 2 {
		t.Errorf("withLabelPrefix(loop) = %v, want 2 symbols", g)
	}
}

func TestParseSymbolsErrors(t *testing.T) {
	for _, c := range []struct {
		text, err string
	}{
		{"12\n", "invalid symbol"},
		{"0 ok\nx bad\n", ":2: invalid address"},
		{"-4 neg\n", "invalid address"},
	} {
		_, err := parseSymbols(writeSymbols(t, c.text))
		if err == nil || !strings.Contains(err.Error(), c.err) {
			t.Errorf("parsing %q: got error %v, want %q", c.text, err, c.err)
		}
	}
}

func TestResolve(t *testing.T) {
	syms := symbols{{0, "start"}, {12, "read_joystick"}}
	for _, c := range []struct {
		arg  string
		want symbol
		ok   bool
	}{
		{"start", symbol{0, "start"}, true},
		{"12", symbol{12, "read_joystick"}, true},
		{"99", symbol{99, ""}, true},
		{"nowhere", symbol{}, false},
		{"-1", symbol{}, false},
	} {
		s, ok := syms.resolve(c.arg)
		if s != c.want || ok != c.ok {
			t.Errorf("resolve(%q) = %v, %v; want %v, %v", c.arg, s, ok, c.want, c.ok)
		}
	}
	if g, w := (symbol{12, "read_joystick"}).String(), "read_joystick (12)"; g != w {
		t.Errorf("String() = %q, want %q", g, w)
	}
	if g, w := (symbol{addr: 7}).String(), "7"; g != w {
		t.Errorf("String() = %q, want %q", g, w)
	}
}
