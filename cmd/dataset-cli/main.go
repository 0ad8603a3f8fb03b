package main

import "github.com/backbone81/dataset/cmd/dataset-cli/cmd"

func main() {
	cmd.Execute()
}
