package main

import "github.com/quocvuong92/px-cli/cmd"

func main() {
	cmd.Execute()
}
