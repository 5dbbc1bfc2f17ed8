// Package main provides the notiman CLI, which talks to a running notimand.
package main

func main() {
	Execute()
}
