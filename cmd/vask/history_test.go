package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Zuo-Peng/vask/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	writeResults(&buf, []history.Result{
		{
			Exchange: history.Exchange{
				ID:        7,
				SessionID: "abc",
				VideoURL:  "https://youtu.be/x",
				Question:  "line one\nline\ttwo",
				FollowUp:  true,
				AskedAt:   time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
			},
			Snippet: "the >>>cat<<< sat",
		},
	})

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	require.Len(t, fields, 6)
	assert.Equal(t, "7", fields[0])
	assert.Equal(t, "abc", fields[1])
	assert.Equal(t, "https://youtu.be/x", fields[3])
	assert.Contains(t, fields[4], "line one line two")
	assert.Contains(t, fields[4], "↳ ")
	assert.Equal(t, "the "+sColorBoldRed+"cat"+sColorReset+" sat", fields[5])
}

func TestWriteResults_TruncatesLongQuestions(t *testing.T) {
	var buf bytes.Buffer
	writeResults(&buf, []history.Result{{Exchange: history.Exchange{Question: strings.Repeat("x", 200)}}})
	assert.Contains(t, buf.String(), strings.Repeat("x", questionWidth-3)+"...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", questionWidth+1))
}
