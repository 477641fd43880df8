package ui

import (
	"fyne.io/fyne/v2"
)

// FyneSender delivers scheduler notifications through the platform
// notification facility.
type FyneSender struct {
	App fyne.App
}

func (s FyneSender) Send(title, body string) {
	s.App.SendNotification(fyne.NewNotification(title, body))
}
