package main

import "github.com/andeanfly/flightdesk/cmd/invctl/cmd"

func main() {
	cmd.Execute()
}
