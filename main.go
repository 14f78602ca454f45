package main

import "dsprep/cmd"

func main() {
	cmd.Execute()
}
