package main

import "github.com/paykiosk/paykiosk/cmd"

func main() {
	cmd.Execute()
}
