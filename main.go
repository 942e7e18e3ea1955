package main

import "github.com/icco/tonesynth/cmd"

func main() {
	cmd.Execute()
}
