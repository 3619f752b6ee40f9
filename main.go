package main

import "snow-board.com/snow-board/cmd"

func main() {
	cmd.Execute()
}
