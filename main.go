package main

import "github.com/notargets/gotealeaf/cmd"

func main() {
	cmd.Execute()
}
