// Package main is the entry point for the chaos component host.
package main

func main() {
	Execute()
}
