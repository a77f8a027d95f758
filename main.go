package main

import "table-for-two-backend/cmd"

func main() {
	cmd.Run()
}
