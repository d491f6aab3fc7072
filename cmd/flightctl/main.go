package main

import "github.com/andeanfly/flightdesk/cmd/flightctl/cmd"

func main() {
	cmd.Execute()
}
