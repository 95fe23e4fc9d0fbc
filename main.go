package main

import "github.com/iburimskiy/landing-motion/cmd"

func main() {
	cmd.Execute()
}
