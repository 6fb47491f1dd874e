package main

import "writook/cmd/writook/cmd"

func main() {
	cmd.Execute()
}
