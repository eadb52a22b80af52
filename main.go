package main

import "github.com/qobs-build/qbuild/cmd"

func main() {
	cmd.Execute()
}
