package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// symbols is a list of labelled addresses, sorted by address.
//
// A symbol file has one symbol per line: a decimal address followed by
// white space and a label. Blank lines and lines starting with '#' are
// ignored.
type symbols []symbol

type symbol struct {
	addr  int64
	label string
}

func (s symbol) String() string {
	if s.label == "" {
		return strconv.FormatInt(s.addr, 10)
	}
	return fmt.Sprintf("%s (%d)", s.label, s.addr)
}

func (s symbols) forAddr(addr int64) (ss []symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].addr >= addr })
	for ; i < len(s) && s[i].addr == addr; i++ {
		ss = append(ss, s[i])
	}
	return ss
}

func (s symbols) withLabelPrefix(p string) (ss []symbol) {
	for _, sym := range s {
		if strings.HasPrefix(sym.label, p) {
			ss = append(ss, sym)
		}
	}
	return ss
}

// resolve returns the symbol named by arg, which is either a label or a
// decimal address.
func (s symbols) resolve(arg string) (symbol, bool) {
	for _, sym := range s {
		if sym.label == arg {
			return sym, true
		}
	}
	addr, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || addr < 0 {
		return symbol{}, false
	}
	if ss := s.forAddr(addr); len(ss) > 0 {
		return ss[0], true
	}
	return symbol{addr: addr}, true
}

func parseSymbols(symFile string) (symbols, error) {
	f, err := os.Open(symFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var (
		ss symbols
		sc = bufio.NewScanner(f)
		n  = 0
	)
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		a, label, ok := strings.Cut(line, " ")
		if !ok {
			a, label, ok = strings.Cut(line, "\t")
		}
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("%s:%d: invalid symbol %q", symFile, n, line)
		}
		addr, err := strconv.ParseInt(a, 10, 64)
		if err != nil || addr < 0 {
			return nil, fmt.Errorf("%s:%d: invalid address %q", symFile, n, a)
		}
		ss = append(ss, symbol{addr: addr, label: label})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return ss, nil
}
