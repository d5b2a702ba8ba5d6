package main

import "settle-core/cmd/settle-cli/cmd"

func main() {
	cmd.Execute()
}
