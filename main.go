package main

import "github.com/stationhq/media-api/cmd"

func main() {
	cmd.Execute()
}
