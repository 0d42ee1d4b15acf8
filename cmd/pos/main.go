package main

import "grampos/cmd/pos/cmd"

func main() {
	cmd.Execute()
}
