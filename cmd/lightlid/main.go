package main

import "github.com/oshokin/lightlid/cmd/lightlid/cmd"

func main() {
	cmd.Execute()
}
