package view

import (
	"bytes"

	"github.com/logrusorgru/aurora"

	"gameoflife/src/board"
)

const cropMessage = "The field size is larger than the viewing area"

//Fillers are the strings printed for the cells
type Fillers struct {
	Live string
	Dead string
}

//ColorFillers is used by the terminal views
var ColorFillers = Fillers{
	Live: aurora.Green("█").BgBrightGreen().String(),
	Dead: "░",
}

//PlainFillers has no escape sequences, used for logs and tests
var PlainFillers = Fillers{Live: "#", Dead: "."}

//RenderField draws the area as text lines, one char per cell.
//The cells outside maxW x maxH are discarded, zero means no limit.
//When the area does not fit the height, the last line is replaced by the crop warning.
func RenderField(a board.Area, f Fillers, maxW, maxH int) string {
	var b bytes.Buffer
	crop := (maxW > 0 && a.Width > maxW) || (maxH > 0 && a.Height > maxH)

	for i, l := range a.Entities {
		if maxH > 0 && i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte('\n')
		}
		if crop && maxH > 0 && i == maxH-1 {
			b.WriteString(aurora.Red(cropMessage).BgBlack().String())
			break
		}
		for j, e := range l {
			if maxW > 0 && j >= maxW {
				break
			}
			if e == board.Alive {
				b.WriteString(f.Live)
			} else {
				b.WriteString(f.Dead)
			}
		}
	}
	return b.String()
}
