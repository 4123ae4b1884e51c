package main

import "github.com/dikako/gdrive-downloader/cmd"

func main() {
	cmd.Execute()
}
