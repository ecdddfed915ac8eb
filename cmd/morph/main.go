package main

import "github.com/MeKo-Tech/morphium/cmd/morph/cmd"

func main() {
	cmd.Execute()
}
