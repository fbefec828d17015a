// Zmph builds a minimal perfect hash function over a word list and checks or
// queries it.
//
// Usage:
//
//	go run ./cmd/zmph check --words /usr/share/dict/words --hash murmur3
//	go run ./cmd/zmph lookup --words words.txt apple banana
//	go run ./cmd/zmph bench --keys 1000000 --hash xxh3
//
// Each word maps to its zero-based line number in the list.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
