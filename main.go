package main

import "github.com/mouse-blink/polaris-migrator/cmd"

func main() {
	cmd.Execute()
}
