//go:build go1.20
// +build go1.20

package main

import "github.com/nickng/dinephil/cmd"

func main() {
	cmd.Execute()
}
