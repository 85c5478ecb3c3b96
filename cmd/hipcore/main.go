// File path: cmd/hipcore/main.go
package main

func main() {
	Execute()
}
