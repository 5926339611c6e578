package main

import (
	"fmt"
	"os"

	// Import to register the simulation
	_ "github.com/picogrid/engagement-sim/cmd/engagement/simulation"
)

func main() {
	fmt.Println("Engagement simulation registered. Use 'engagement-sim run' to execute.")
	os.Exit(0)
}
