package main

import "github.com/brogergvhs/comicmail/cmd"

func main() {
	cmd.Execute()
}
