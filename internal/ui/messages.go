package ui

import (
	"spinframes/internal/pipeline"
	"spinframes/internal/progress"
)

type updateMsg struct {
	U progress.Update
}

type logMsg struct {
	L progress.Log
}

type resultMsg struct {
	R progress.Result
}

type runDoneMsg struct {
	Res pipeline.Result
	Err error
}

type quitMsg struct{}
