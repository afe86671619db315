// Package main provides the renval CLI for rendering deployment values
// documents from variable and secret mappings.
package main

func main() {
	Execute()
}
