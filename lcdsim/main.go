// lcdsim runs the terminal driver against a simulated 20x4 HD44780.
package main

import "github.com/harveysanders/lcdterm/lcdsim/cmd"

func main() {
	cmd.Execute()
}
