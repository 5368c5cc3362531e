package display

import (
	"os"

	"github.com/backmassage/contactsheet/internal/term"
)

// PrintBanner prints the ASCII art banner; magenta if colors are enabled.
func PrintBanner() {
	term.Magenta.Fprintln(os.Stdout, `                 _             _       _               _
  ___ ___  _ __ | |_ __ _  ___| |_ ___| |__   ___  ___| |_
 / __/ _ \| '_ \| __/ _`+"`"+` |/ __| __/ __| '_ \ / _ \/ _ \ __|
| (_| (_) | | | | || (_| | (__| |_\__ \ | | |  __/  __/ |_
 \___\___/|_| |_|\__\__,_|\___|\__|___/_| |_|\___|\___|\__|`)
}
