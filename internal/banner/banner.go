// FilePath: server/sweeps/internal/banner/banner.go
package banner

import (
	"fmt"

	tm "github.com/buger/goterm"
	nuts "github.com/vaudience/go-nuts"
)

// ClearConsole clears the console screen.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

// DrawLogo prints the logo with the name of the running binary and its version.
func DrawLogo(binary string) {
	fmt.Println()
	lines := []string{
		"  ____                              ",
		" / ___|_      _____  ___ _ __  ___ ",
		" \\___ \\ \\ /\\ / / _ \\/ _ \\ '_ \\/ __|",
		"  ___) \\ V  V /  __/  __/ |_) \\__ \\",
		" |____/ \\_/\\_/ \\___|\\___| .__/|___/",
		"                        |_|        ",
		".................................... " + binary + " " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
