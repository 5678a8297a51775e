package main

import "tcpdrop/cmd"

func main() {
	cmd.Execute()
}
