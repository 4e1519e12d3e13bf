// Package samples embeds a few well-known programs.
package samples

import (
	_ "embed"
	"fmt"
	"sort"
)

//go:embed hello.b
var Hello string

//go:embed rot13.b
var ROT13 string

//go:embed fib.b
var Fibonacci string

var byName = map[string]string{
	"hello": Hello,
	"rot13": ROT13,
	"fib":   Fibonacci,
}

// Get returns the source of the named sample.
func Get(name string) (string, error) {
	src, ok := byName[name]
	if !ok {
		return "", fmt.Errorf("unknown sample %q (have %v)", name, Names())
	}

	return src, nil
}

// Names lists the embedded samples in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
