package main

import "markd/cmd/client/cmd"

func main() {
	cmd.Execute()
}
