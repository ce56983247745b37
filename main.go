// Package main provides the slate CLI workspace engine application.
package main

import (
	"github.com/nbarlow/slate/cmd/slate"
)

func main() {
	slate.Execute()
}
