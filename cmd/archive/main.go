// Command archive unpacks compressed archives into a normalized single
// top-level directory, and packs directories back into archives.
package main

func main() {
	Execute()
}
