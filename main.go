package main

import "github.com/Koson7970/wood-strength-prediction-model/cmd"

func main() {
	cmd.Execute()
}
