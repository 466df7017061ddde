package main

import "nestml/cmd"

func main() {
	cmd.Execute()
}
