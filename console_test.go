package main

import (
	"reflect"
	"strings"
	"testing"
)

func readAll(c *console) (vals []int64) {
	for {
		v, ok := c.Input()
		if !ok {
			return vals
		}
		vals = append(vals, v)
	}
}

func TestConsoleInput(t *testing.T) {
	var out strings.Builder
	c := newConsole(strings.NewReader("1, 2 3\n\nx,-4\n"), &out, false)
	if g, w := readAll(c), []int64{1, 2, 3, -4}; !reflect.DeepEqual(g, w) {
		t.Errorf("got %v, want %v", g, w)
	}
	if !strings.HasPrefix(out.String(), `bad input "x"`) {
		t.Errorf("output is %q, want a complaint about x", out.String())
	}

	c = newConsole(strings.NewReader("hi\nA\n"), &out, true)
	if g, w := readAll(c), []int64{'h', 'i', '\n', 'A', '\n'}; !reflect.DeepEqual(g, w) {
		t.Errorf("got %v, want %v", g, w)
	}

	c = newConsole(nil, &out, false)
	if v, ok := c.Input(); ok {
		t.Errorf("got input %d from no reader", v)
	}
}

func TestConsoleOutput(t *testing.T) {
	for _, c := range []struct {
		ascii bool
		vals  []int64
		want  string
	}{
		{false, []int64{1, -2, 'a'}, "1\n-2\n97\n"},
		{true, []int64{'o', 'k', '\n', 'h', 'i'}, "ok\nhi\n"},
		{true, []int64{'s', 'c', 'o', 'r', 'e', 19357}, "score\n19357\n"},
		{true, []int64{-1}, "-1\n"},
	} {
		var b strings.Builder
		con := newConsole(nil, &b, c.ascii)
		for _, v := range c.vals {
			con.Output(v)
		}
		con.Flush()
		if g := b.String(); g != c.want {
			t.Errorf("output of %v is %q, want %q", c.vals, g, c.want)
		}
	}
}
