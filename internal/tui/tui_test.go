package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/vask/internal/api"
	"github.com/Zuo-Peng/vask/internal/controller"
	"github.com/Zuo-Peng/vask/internal/session"
)

type fakeAsker struct {
	mu       sync.Mutex
	requests []api.AskRequest
	resp     *api.AskResponse
	err      error
}

func (f *fakeAsker) Ask(_ context.Context, req api.AskRequest) (*api.AskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

// harness wires a real controller to the model through a collecting view.
type harness struct {
	m     model
	asker *fakeAsker
	msgs  []tea.Msg
}

func newHarness(t *testing.T, asker *fakeAsker, videoURL string) *harness {
	t.Helper()
	h := &harness{asker: asker}
	view := &programView{send: func(msg tea.Msg) { h.msgs = append(h.msgs, msg) }}
	ctl := controller.New(asker, view, session.NewGenerator())
	h.m = initialModel(context.Background(), ctl, videoURL)
	h.update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(model)
	return cmd
}

// run executes cmd and feeds every view message it produced back into the model.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	h.msgs = nil
	assert.Nil(t, cmd())
	for _, msg := range h.msgs {
		h.update(msg)
	}
}

func (h *harness) typeText(s string) {
	h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func TestInitialModel_FocusesQuestionWhenURLGiven(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "https://youtu.be/abc")
	assert.Equal(t, focusQuestion, h.m.focus)
	assert.Equal(t, "https://youtu.be/abc", h.m.inputs[focusURL].Value())

	h2 := newHarness(t, &fakeAsker{}, "")
	assert.Equal(t, focusURL, h2.m.focus)
}

func TestSubmit_MissingURL(t *testing.T) {
	asker := &fakeAsker{}
	h := newHarness(t, asker, "")

	h.run(t, h.update(enter()))

	assert.Empty(t, asker.requests)
	assert.True(t, h.m.errVisible)
	assert.Equal(t, controller.MsgMissingURL, h.m.errText)
	assert.False(t, h.m.loading)
	assert.Contains(t, h.m.View(), controller.MsgMissingURL)
}

func TestSubmit_MissingQuestion(t *testing.T) {
	asker := &fakeAsker{}
	h := newHarness(t, asker, "https://youtu.be/abc")

	h.run(t, h.update(enter()))

	assert.Empty(t, asker.requests)
	assert.Equal(t, controller.MsgMissingQuestion, h.m.errText)
}

func TestSubmit_Success(t *testing.T) {
	asker := &fakeAsker{resp: &api.AskResponse{Success: true, Answer: "The cat appears at [01:23]."}}
	h := newHarness(t, asker, "https://youtu.be/abc")
	h.typeText("When is the cat?")

	h.run(t, h.update(enter()))

	require.Len(t, asker.requests, 1)
	assert.Equal(t, "When is the cat?", asker.requests[0].Question)
	assert.Equal(t, h.m.ctl.SessionID(), asker.requests[0].SessionID)
	assert.True(t, h.m.resultVisible)
	assert.False(t, h.m.loading)
	assert.False(t, h.m.errVisible)

	out := h.m.View()
	assert.Contains(t, out, "[01:23]")
	assert.Contains(t, out, "1 timestamps")
}

func TestSubmit_ApplicationError(t *testing.T) {
	asker := &fakeAsker{resp: &api.AskResponse{Success: false, Error: "Video not found"}}
	h := newHarness(t, asker, "https://youtu.be/abc")
	h.typeText("q")

	h.run(t, h.update(enter()))

	assert.True(t, h.m.errVisible)
	assert.Equal(t, "Video not found", h.m.errText)
	assert.False(t, h.m.loading)
}

func TestSubmit_TransportFailure(t *testing.T) {
	asker := &fakeAsker{err: api.ErrRequestFailed}
	h := newHarness(t, asker, "https://youtu.be/abc")
	h.typeText("q")

	h.run(t, h.update(enter()))

	assert.Equal(t, controller.MsgRequestFailed, h.m.errText)
	assert.False(t, h.m.loading)
}

func TestFollowUp_ReusesSessionAndClearsInput(t *testing.T) {
	asker := &fakeAsker{resp: &api.AskResponse{Success: true, Answer: "ok"}}
	h := newHarness(t, asker, "https://youtu.be/abc")
	h.typeText("first")
	h.run(t, h.update(enter()))

	h.update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusFollowUp, h.m.focus)
	h.typeText("second")
	assert.Equal(t, "second", h.m.inputs[focusFollowUp].Value())

	h.run(t, h.update(enter()))

	require.Len(t, asker.requests, 2)
	assert.Equal(t, asker.requests[0].SessionID, asker.requests[1].SessionID)
	assert.Equal(t, "second", asker.requests[1].Question)
	assert.Equal(t, "", h.m.inputs[focusFollowUp].Value())
}

func TestDisplayAnswer_ScrollsToTopAndKeepsFocus(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "https://youtu.be/abc")
	h.update(displayAnswerMsg{answer: strings.Repeat("line [00:01]\n", 100)})
	h.m.answer.LineDown(10)
	require.Greater(t, h.m.answer.YOffset, 0)

	h.m.focus = focusFollowUp
	h.m.applyFocus()
	h.update(displayAnswerMsg{answer: strings.Repeat("next [00:02]\n", 100)})

	assert.Equal(t, 0, h.m.answer.YOffset)
	assert.Equal(t, focusFollowUp, h.m.focus)
	assert.True(t, h.m.inputs[focusFollowUp].Focused())
}

func TestFollowUp_Empty(t *testing.T) {
	asker := &fakeAsker{}
	h := newHarness(t, asker, "https://youtu.be/abc")
	h.update(tea.KeyMsg{Type: tea.KeyTab})

	h.run(t, h.update(enter()))

	assert.Empty(t, asker.requests)
	assert.Equal(t, controller.MsgMissingFollowUp, h.m.errText)
}

func TestLoadingHidesError(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "")
	h.update(showErrorMsg{message: "bad"})
	require.True(t, h.m.errVisible)

	cmd := h.update(showLoadingMsg{})

	assert.NotNil(t, cmd)
	assert.True(t, h.m.loading)
	assert.False(t, h.m.errVisible)
	assert.Contains(t, h.m.View(), "Asking...")
}

func TestLoadingLeavesResultPanel(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "")
	h.update(displayAnswerMsg{answer: "previous"})
	h.update(showLoadingMsg{})

	assert.True(t, h.m.resultVisible)
	assert.Contains(t, h.m.View(), "previous")
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "")
	cmd := h.update(h.m.spinner.Tick())
	assert.Nil(t, cmd)
}

func TestFocusCycle(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "")
	want := []focusArea{focusQuestion, focusFollowUp, focusAnswer, focusURL}
	for _, f := range want {
		h.update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, f, h.m.focus)
	}
	h.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusAnswer, h.m.focus)
	for i, in := range h.m.inputs {
		assert.False(t, in.Focused(), "input %d should be blurred", i)
	}
}

func TestEnterOnAnswerDoesNothing(t *testing.T) {
	asker := &fakeAsker{}
	h := newHarness(t, asker, "https://youtu.be/abc")
	h.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	h.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusAnswer, h.m.focus)

	assert.Nil(t, h.update(enter()))
}

func TestCopiedStatus(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "")
	h.update(copiedMsg{})
	assert.True(t, strings.Contains(h.m.View(), "Answer copied to clipboard"))
}

func TestQuit(t *testing.T) {
	h := newHarness(t, &fakeAsker{}, "")
	cmd := h.update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, "", h.m.View())
}
