package main

import "github.com/notargets/heatflux/cmd"

func main() {
	cmd.Execute()
}
