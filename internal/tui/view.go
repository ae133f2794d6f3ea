package tui

import tea "github.com/charmbracelet/bubbletea"

// Messages emitted by programView. They carry controller view calls onto
// the program's update loop.
type (
	showLoadingMsg   struct{}
	hideLoadingMsg   struct{}
	showErrorMsg     struct{ message string }
	displayAnswerMsg struct{ answer string }
	clearFollowUpMsg struct{}
)

// copiedMsg reports the result of a clipboard write.
type copiedMsg struct {
	err error
}

// programView implements controller.View by sending messages to a running
// program. send is tea.Program.Send, which is safe for concurrent use.
type programView struct {
	send func(tea.Msg)
}

func (v *programView) ShowLoading() { v.send(showLoadingMsg{}) }

func (v *programView) HideLoading() { v.send(hideLoadingMsg{}) }

func (v *programView) ShowError(message string) { v.send(showErrorMsg{message: message}) }

func (v *programView) DisplayAnswer(answer string) { v.send(displayAnswerMsg{answer: answer}) }

func (v *programView) ClearFollowUp() { v.send(clearFollowUpMsg{}) }
