package main

import "show-sync/cmd"

func main() {
	cmd.Execute()
}
