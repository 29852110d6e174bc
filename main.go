package main

import "example.com/backstage/services/routedelivery/cmd"

func main() {
	cmd.Execute()
}
