package ui

import "buildpulse/internal/progress"

type startMsg struct{}

type sessionUpdateMsg struct {
	U progress.Update
}

type sessionLogMsg struct {
	L progress.Log
}

type sessionResultMsg struct {
	R progress.Result
}

type allDoneMsg struct{}
