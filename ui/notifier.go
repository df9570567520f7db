package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/calvinmclean/vescpad/padcontrol"
)

// dialogNotifier shows messages as information dialogs over a window
type dialogNotifier struct {
	window fyne.Window
}

var _ padcontrol.Notifier = dialogNotifier{}

func (n dialogNotifier) ShowMessage(title, message string) {
	dialog.ShowInformation(title, message, n.window)
}
