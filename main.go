package main

import "facecheck/cmd"

func main() {
	cmd.Execute()
}
