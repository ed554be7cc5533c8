package main

import "github.com/jmehdipour/insights/cmd"

func main() {
	cmd.Execute()
}
