package main

import "github.com/KaramelBytes/salescrub/cmd"

func main() {
	cmd.Execute()
}
