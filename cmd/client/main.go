package main

import "aggyweb/cmd/client/cmd"

func main() {
	cmd.Execute()
}
