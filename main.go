package main

import "github.com/KaramelBytes/enrollboard/cmd"

func main() {
	cmd.Execute()
}
