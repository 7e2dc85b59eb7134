package main

import "tracky/cmd"

func main() {
	cmd.Execute()
}
