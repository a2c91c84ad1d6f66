package main

import "expired-listings/cmd"

func main() {
	cmd.Execute()
}
