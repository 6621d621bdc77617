package main

import "github.com/vmaslov/refresh-runner/cmd/refresh-runner/cmd"

func main() {
	cmd.Execute()
}
