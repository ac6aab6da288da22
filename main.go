package main

import "github.com/woonki/tweetql/cmd"

func main() {
	cmd.Execute()
}
